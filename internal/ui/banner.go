// Package ui provides colored console output for the QChat relay.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Version is printed in the banner.
const Version = "v1.0.0"

// ══════════════════════════════════════════════════════════════════════════════
// ASCII ART BANNER
// ══════════════════════════════════════════════════════════════════════════════

var bannerLines = []string{
	` ██████╗  ██████╗██╗  ██╗ █████╗ ████████╗`,
	`██╔═══██╗██╔════╝██║  ██║██╔══██╗╚══██╔══╝`,
	`██║   ██║██║     ███████║███████║   ██║   `,
	`██║▄▄ ██║██║     ██╔══██║██╔══██║   ██║   `,
	`╚██████╔╝╚██████╗██║  ██║██║  ██║   ██║   `,
	` ╚══▀▀═╝  ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   `,
}

// PrintBanner displays the startup banner.
func PrintBanner() {
	fmt.Println()

	cyan := color.New(color.FgCyan, color.Bold)
	hiCyan := color.New(color.FgHiCyan)
	magenta := color.New(color.FgHiMagenta, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	dim := color.New(color.FgHiBlack)

	cyan.Println("╔══════════════════════════════════════════════════╗")
	for i, line := range bannerLines {
		cyan.Print("║    ")
		if i%2 == 0 {
			hiCyan.Print(line)
		} else {
			magenta.Print(line)
		}
		cyan.Println("   ║")
	}
	cyan.Println("╠══════════════════════════════════════════════════╣")

	cyan.Print("║  ")
	yellow.Print("MULTI-PROVIDER CHAT RELAY")
	dim.Print("  │  ")
	hiCyan.Print(Version)
	dim.Print("             ")
	cyan.Println("║")

	cyan.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()
}
