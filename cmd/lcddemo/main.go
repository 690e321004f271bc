// Command lcddemo renders subpixel anti-aliased text into a PNG using
// the software backend.
package main

import (
	"flag"
	"image/png"
	"log"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/lcdtext"
	"github.com/gogpu/lcdtext/backend"
)

func main() {
	var (
		width    = flag.Int("width", 400, "image width")
		height   = flag.Int("height", 100, "image height")
		output   = flag.String("output", "lcddemo.png", "output file")
		text     = flag.String("text", lcdtext.DefaultText, "text to render (\\n breaks lines)")
		size     = flag.Float64("size", lcdtext.DefaultFontSize, "font size in points")
		coverage = flag.Float64("coverage", 0, "coverage adjustment in [-1, 1]")
		shaper   = flag.String("shaper", "sfnt", "shaper backend (sfnt or gotext)")
	)
	flag.Parse()

	sw := backend.NewSoftware()
	r, err := lcdtext.New(goregular.TTF,
		lcdtext.WithBackend(sw),
		lcdtext.WithText(strings.ReplaceAll(*text, `\n`, "\n")),
		lcdtext.WithFontSize(*size),
		lcdtext.WithCoverageAdjustment(*coverage),
		lcdtext.WithShaperBackend(*shaper),
	)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	defer r.Close()

	r.SetViewport(*width, *height)
	if err := r.Redraw(); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, sw.Image()); err != nil {
		log.Fatalf("Failed to encode: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}
