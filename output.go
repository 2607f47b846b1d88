package main

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrModification/pvzf-launcher/internal/launcher"
	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/registry"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FD7FF"})
	mutedStyle    = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#767676", Dark: "#8A8A8A"})
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"})
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF00"})
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle.UnsetPadding()).
		Headers(headers...)
}

func render(w io.Writer, t *table.Table) {
	_, _ = io.WriteString(w, t.Render()+"\n")
}

// patchLabel mirrors the patch state shown in the installation list
func patchLabel(inst *registry.Installation) string {
	if inst.Disabled() {
		return "disabled"
	}
	switch loader.DetectPatch(inst.Path) {
	case loader.PatchMelon:
		return "MelonLoader"
	case loader.PatchBep:
		return "BepInEx"
	default:
		return "no"
	}
}

func installationsTable(items []*registry.Installation, current *registry.Installation) *table.Table {
	t := newTable("", "Name", "Loader", "Patched", "Mods", "Last Played", "Path")
	for _, inst := range items {
		marker := ""
		if inst == current {
			marker = "*"
		}
		t.Row(marker, inst.Name(), inst.LoaderType, patchLabel(inst),
			strconv.Itoa(inst.ModCount), inst.LastPlayed.String(), inst.Path)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case row >= 0 && row < len(items) && items[row] == current:
			return selectedStyle
		default:
			return cellStyle
		}
	})
	return t
}

func modpacksTable(packs []launcher.ModpackStatus) *table.Table {
	t := newTable("Name", "Version", "Creator", "Files", "State")
	for _, p := range packs {
		state := "active"
		if p.Disabled {
			state = "disabled"
		}
		t.Row(p.Name, p.Version, p.Creator, strconv.Itoa(len(p.InstalledFiles)), state)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row >= 0 && row < len(packs) && packs[row].Disabled {
			return mutedStyle
		}
		return cellStyle
	})
	return t
}
