package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/hpn/qchat-relay/internal/domain"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR DEFINITIONS
// ══════════════════════════════════════════════════════════════════════════════

var (
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	errorBadge   = color.New(color.BgRed, color.FgWhite, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)
	debugBadge   = color.New(color.FgMagenta)

	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)
	neonBlue    = color.New(color.FgHiCyan, color.Bold)

	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST LOGGING
// ══════════════════════════════════════════════════════════════════════════════

// PrintRequest prints one colored line per handled request:
// 15:04:05  POST  /chat                 200    842ms OpenAI
func PrintRequest(method, path string, status int, latency time.Duration, provider string) {
	mutedText.Printf("%s ", time.Now().Format("15:04:05"))
	methodStyle(method).Printf(" %-4s ", method)
	fmt.Printf(" %-20s ", truncatePath(path, 20))
	statusStyle(status).Printf(" %d ", status)
	latencyStyle(latency).Printf(" %6dms", latency.Milliseconds())

	if provider != "" {
		accentText.Printf(" %s", provider)
	}
	fmt.Println()
}

func methodStyle(method string) *color.Color {
	switch method {
	case "POST":
		return methodPOST
	case "GET":
		return methodGET
	default:
		return debugBadge
	}
}

func statusStyle(status int) *color.Color {
	switch {
	case status < 300:
		return successBadge
	case status < 400:
		return infoBadge
	case status < 500:
		return warningBadge
	default:
		return errorBadge
	}
}

// Upstream model calls take seconds, so the thresholds do too.
func latencyStyle(latency time.Duration) *color.Color {
	switch {
	case latency < 2*time.Second:
		return successText
	case latency < 10*time.Second:
		return warningText
	default:
		return errorText
	}
}

// truncatePath truncates a path to maxLen characters.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return path[:maxLen-3] + "..."
}

// ══════════════════════════════════════════════════════════════════════════════
// STARTUP MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// PrintStartupInfo prints the listen address and the provider table.
func PrintStartupInfo(addr string, providers []domain.ProviderSpec) {
	fmt.Println()
	infoBadge.Print("[RELAY]")
	fmt.Print(" Server starting on ")
	neonBlue.Printf("http://%s\n", addr)

	infoBadge.Print("[RELAY]")
	fmt.Print(" Providers: ")
	successText.Printf("%d\n", len(providers))
	for _, p := range providers {
		mutedText.Print("  • ")
		accentText.Printf("%-10s", p.ID)
		mutedText.Printf(" %-17s ", p.Format)
		fmt.Println(p.Endpoint)
	}

	fmt.Println()
	printEndpoints()
}

// printEndpoints prints the available API endpoints.
func printEndpoints() {
	mutedText.Println("  ┌──────────────────────────────────────────┐")

	mutedText.Print("  │ ")
	methodPOST.Print(" POST ")
	fmt.Print(" /chat    ")
	mutedText.Print(" Relay a chat message   ")
	mutedText.Println(" │")

	mutedText.Print("  │ ")
	methodGET.Print(" GET  ")
	fmt.Print(" /        ")
	mutedText.Print(" Liveness probe         ")
	mutedText.Println(" │")

	mutedText.Print("  │ ")
	methodGET.Print(" GET  ")
	fmt.Print(" /health  ")
	mutedText.Print(" Health and providers   ")
	mutedText.Println(" │")

	mutedText.Println("  └──────────────────────────────────────────┘")
	fmt.Println()
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[SHUTDOWN]")
	warningText.Println(" Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Println("Server stopped. Goodbye!")
}
