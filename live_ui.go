package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// LiveView renders the latest sample and its process rankings while a run is
// in progress. It is a pure consumer of the collector's envelope stream; the
// collection semantics are identical with or without it.
type LiveView struct {
	app   *tview.Application
	title string

	layout    *tview.Flex
	header    *tview.TextView
	statsView *tview.TextView
	procTable *tview.Table
	helpView  *tview.TextView

	dataMutex sync.RWMutex
	latest    *Sample
	progress  Progress
	notice    string
}

// NewLiveView creates the live view and wires its layout into app.
func NewLiveView(app *tview.Application, title string) *LiveView {
	ui := &LiveView{app: app, title: title}
	ui.createComponents()
	ui.setupLayout()
	ui.setupInputHandler()
	return ui
}

func (ui *LiveView) createComponents() {
	ui.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.header.SetBorder(false)

	ui.statsView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.statsView.SetBorder(true).SetTitle(" System ")

	ui.procTable = tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)
	ui.procTable.SetBorder(true).SetTitle(" Top processes (CPU) ")

	ui.helpView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.helpView.SetText("Q/q/Ctrl+C: stop collection (samples so far are kept)")
}

func (ui *LiveView) setupLayout() {
	ui.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.header, 1, 0, false).
		AddItem(ui.statsView, 9, 0, false).
		AddItem(ui.procTable, 0, 1, true).
		AddItem(ui.helpView, 1, 0, false)
}

func (ui *LiveView) setupInputHandler() {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyCtrlC,
			event.Rune() == 'q', event.Rune() == 'Q':
			ui.app.Stop()
			return nil
		}
		return event
	})
}

// GetLayout returns the root primitive for app.SetRoot.
func (ui *LiveView) GetLayout() *tview.Flex {
	return ui.layout
}

// Start begins consuming envelopes and periodically redrawing. It returns
// when the envelope channel closes; the caller stops the application.
func (ui *LiveView) Start(envCh <-chan Envelope) {
	go func() {
		for env := range envCh {
			ui.handleEnvelope(env)
		}
	}()

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			ui.app.QueueUpdateDraw(func() {
				ui.updateContent()
			})
		}
	}()
}

func (ui *LiveView) handleEnvelope(env Envelope) {
	ui.dataMutex.Lock()
	defer ui.dataMutex.Unlock()

	switch payload := env.Payload.(type) {
	case Sample:
		sample := payload
		ui.latest = &sample
	case Progress:
		ui.progress = payload
	case Notice:
		ui.notice = payload.Message
	}
}

func (ui *LiveView) updateContent() {
	ui.dataMutex.RLock()
	latest := ui.latest
	progress := ui.progress
	notice := ui.notice
	ui.dataMutex.RUnlock()

	headerText := fmt.Sprintf("[blue]%s[-]  [gray]%s[-]", ui.title, time.Now().Format("15:04:05"))
	if progress.Scheduled > 0 {
		headerText += fmt.Sprintf("  sample %d/%d", progress.Completed, progress.Scheduled)
	}
	if notice != "" {
		headerText += fmt.Sprintf("  [yellow]%s[-]", notice)
	}
	ui.header.SetText(headerText)

	if latest == nil {
		ui.statsView.SetText("waiting for first sample...")
		return
	}

	charging := "no"
	if latest.Charging {
		charging = "yes"
	}
	ui.statsView.SetText(fmt.Sprintf(
		"CPU      %6.1f%%\nRAM      %6.1f%%  (%.2f GB)\nDisk R/W %8.2f / %.2f KB/s\nNet S/R  %8.2f / %.2f KB/s\nCharging %s\nAt       %s",
		latest.CPUPercent,
		latest.MemoryPercent, latest.MemoryUsedGB,
		latest.DiskReadKBs, latest.DiskWriteKBs,
		latest.NetSentKBs, latest.NetRecvKBs,
		charging,
		latest.TimestampHuman,
	))

	ui.updateProcessTable(latest.TopCPU)
}

func (ui *LiveView) updateProcessTable(top []ProcessObservation) {
	ui.procTable.Clear()
	for col, name := range []string{"PID", "NAME", "CPU%", "MEM%"} {
		cell := tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false)
		ui.procTable.SetCell(0, col, cell)
	}

	for row, obs := range top {
		ui.procTable.SetCell(row+1, 0, tview.NewTableCell(fmt.Sprintf("%d", obs.PID)))
		ui.procTable.SetCell(row+1, 1, tview.NewTableCell(obs.Name))
		ui.procTable.SetCell(row+1, 2, tview.NewTableCell(fmt.Sprintf("%.1f", obs.CPUShare)))
		ui.procTable.SetCell(row+1, 3, tview.NewTableCell(fmt.Sprintf("%.1f", obs.MemoryShare)))
	}
}
