package main

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const unknownCPULabel = "UnknownCPU"

// HardwareLabel derives the opaque tag attached to every row of a run:
// "<cpu-model>-RAM<n>GB". An unreadable CPU model falls back to a placeholder
// rather than failing; the label is cosmetic.
func HardwareLabel(ctx context.Context) string {
	model := unknownCPULabel
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		model = infos[0].ModelName
	}

	var ramGB int
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		ramGB = int(math.Round(float64(vm.Total) / (1 << 30)))
	}

	return sanitizeLabel(fmt.Sprintf("%s-RAM%dGB", model, ramGB))
}

// sanitizeLabel makes the label filename- and CSV-friendly: trademark marks
// removed, spaces collapsed to underscores.
func sanitizeLabel(label string) string {
	replacer := strings.NewReplacer(
		"(R)", "",
		"(TM)", "",
		"®", "",
		"™", "",
		" ", "_",
	)
	return replacer.Replace(label)
}
