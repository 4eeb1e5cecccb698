package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the interactive trainer.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Warm gradient, amber to rose.
	s1 := termenv.String(`  ____   __    ____  __    ____  _  _ `).Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(` (  _ \ /__\  (  _ \(  )  ( ___)( \/ )`).Foreground(p.Color("#fb923c"))
	s3 := termenv.String(`  )___//(__)\  )   / )(__  )__)  \  / `).Foreground(p.Color("#f87171"))
	s4 := termenv.String(` (__) (__)(__)(_)\_)(____)(____) (__) `).Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println()
}
