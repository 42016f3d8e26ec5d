package dashboard

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sour/internal/metrics"
	"github.com/rileyhilliard/sour/internal/ui"
)

const gaugeWidth = 30

// renderDashboard renders the complete live view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderMetricBars())
	b.WriteString("\n\n")

	if m.flags.SpeedtestActive() {
		b.WriteString(m.renderProbePanel())
	} else {
		b.WriteString(m.renderNetworkPanel())
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderProcessTable())
	b.WriteString("\n\n")

	b.WriteString(m.renderDiskTable())

	if m.feedback != "" {
		b.WriteString("\n\n")
		b.WriteString(feedbackStyle.Render(m.feedback))
	}

	return b.String()
}

// renderHeader shows the host identity, uptime, and the command help line.
func (m Model) renderHeader() string {
	hostname := "unknown"
	var uptime int64
	if m.snapshot != nil {
		hostname = m.snapshot.Hostname
		uptime = m.snapshot.UptimeSeconds
	}

	title := titleStyle.Render("sour")
	stats := mutedStyle.Render(fmt.Sprintf(" | %s | up %s", hostname, formatUptime(uptime)))
	help := helpStyle.Render("Commands: k = kill process | f = freeze | n = speedtest | q = quit")

	return title + stats + "\n" + help
}

// renderMetricBars shows the CPU, memory, and disk gauges.
func (m Model) renderMetricBars() string {
	var cpu, mem, disk float64
	if m.snapshot != nil {
		cpu = m.snapshot.CPUPercent
		mem = m.snapshot.MemPercent
		disk = m.snapshot.DiskPercent
	}

	lines := []string{ui.RenderLabeledGauge("CPU ", gaugeWidth, cpu)}
	if spark := ui.RenderSparkline(m.cpuHistory, gaugeWidth); spark != "" {
		lines = append(lines, "     "+spark)
	}
	lines = append(lines,
		ui.RenderLabeledGauge("MEM ", gaugeWidth, mem),
		ui.RenderLabeledGauge("DISK", gaugeWidth, disk),
	)
	return strings.Join(lines, "\n")
}

// renderNetworkPanel shows the current send/receive rates.
func (m Model) renderNetworkPanel() string {
	var sent, recv float64
	if m.snapshot != nil {
		sent = m.snapshot.NetSentRate
		recv = m.snapshot.NetRecvRate
	}

	return sectionStyle.Render("Network") + "\n" +
		fmt.Sprintf("  ↓ %-14s ↑ %s",
			metrics.FormatBytesPerSec(recv), metrics.FormatBytesPerSec(sent))
}

// renderProbePanel shows the speed-test sparkline and output while the
// speedtest toggle is on.
func (m Model) renderProbePanel() string {
	snap := m.probe.Snapshot()

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Speedtest"))
	b.WriteString("\n")

	if snap.Graph != "" {
		b.WriteString("  " + snap.Graph + "\n")
	}

	// Output collected before a mid-run failure still shows, with the error
	// underneath it.
	if snap.Text != "" {
		for _, line := range strings.Split(strings.TrimRight(snap.Text, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	if snap.Err != "" {
		b.WriteString("  " + errorStyle.Render(snap.Err) + "\n")
	}
	if snap.Text == "" && snap.Err == "" {
		if snap.Running {
			b.WriteString("  " + mutedStyle.Render("(running...)"))
		} else {
			b.WriteString("  " + mutedStyle.Render("(not started)"))
		}
		return b.String()
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderProcessTable lists the top processes by CPU usage.
func (m Model) renderProcessTable() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Top processes"))
	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("  %3s %7s %-24s %6s %6s", "#", "PID", "NAME", "CPU%", "MEM%")))

	if len(m.procs) == 0 {
		b.WriteString("\n  " + mutedStyle.Render("(no processes)"))
		return b.String()
	}

	for i, p := range m.procs {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %3d %7d %-24s %6.1f %6.1f",
			i+1, p.PID, truncateName(p.Name, 24), p.CPUPercent, p.MemPercent))
	}
	return b.String()
}

// renderDiskTable lists physical partitions and their usage.
func (m Model) renderDiskTable() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Disks"))
	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("  %-18s %-20s %-8s %6s", "DEVICE", "MOUNT", "FSTYPE", "USED%")))

	if len(m.partitions) == 0 {
		b.WriteString("\n  " + mutedStyle.Render("(no partitions)"))
		return b.String()
	}

	for _, p := range m.partitions {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %-18s %-20s %-8s %6.1f",
			truncateName(p.Device, 18), truncateName(p.Mountpoint, 20), p.Fstype, p.UsedPercent))
	}
	return b.String()
}

// renderKillPrompt renders the modal process picker shown after `k`.
func (m Model) renderKillPrompt() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a process to kill"))
	b.WriteString("\n\n")

	if len(m.killProcs) == 0 {
		b.WriteString(mutedStyle.Render("  (no processes)"))
		b.WriteString("\n\n")
	} else {
		for i, p := range m.killProcs {
			b.WriteString(fmt.Sprintf("  %3d. %-24s PID %d (%.1f%% CPU)\n",
				i+1, truncateName(p.Name, 24), p.PID, p.CPUPercent))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.killInput.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter to confirm, esc to cancel"))
	return b.String()
}

// formatUptime renders seconds as H:MM:SS.
func formatUptime(seconds int64) string {
	h := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
}

// truncateName shortens s to at most n runes.
func truncateName(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
