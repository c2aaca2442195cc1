package main

import (
	"fmt"

	"github.com/8bitcraft/gleeby/pkg/alloc"
	"github.com/8bitcraft/gleeby/pkg/asm"
	"github.com/8bitcraft/gleeby/pkg/block"
	"github.com/8bitcraft/gleeby/pkg/cpu"
	"github.com/8bitcraft/gleeby/pkg/ppu"
	"github.com/8bitcraft/gleeby/pkg/rom"
)

// demo composes one of spec.md §8's worked scenarios onto g's root
// block, exercising the macro-assembler primitives end to end.
type demo func(g *rom.Generator) error

var demos = map[string]demo{
	"lcd-toggle":   demoLcdToggle,
	"palette":      demoPalette,
	"tilemap":      demoTilemap,
	"counter-loop": demoCounterLoop,
}

func demoLcdToggle(g *rom.Generator) error {
	m := asm.NewMacroAssembler(g.Alloc)
	m.DisableLcdNow(g.Root)
	m.EnableLcdNow(g.Root)
	return nil
}

func demoPalette(g *rom.Generator) error {
	m := asm.NewMacroAssembler(g.Alloc)
	colors := [4]ppu.Color{ppu.Black, ppu.Red, ppu.Green, ppu.Blue}
	return m.SetPalette(g.Root, ppu.Palette0, colors)
}

func demoTilemap(g *rom.Generator) error {
	m := asm.NewMacroAssembler(g.Alloc)
	tm := ppu.NewTilemapFromFunc(func(x, y uint8) uint8 {
		if (x+y)%2 == 0 {
			return 1
		}
		return 0
	})
	return m.SetTilemap(g.Root, ppu.TilemapArea0, tm)
}

func demoCounterLoop(g *rom.Generator) error {
	m := asm.NewMacroAssembler(g.Alloc)
	var gen alloc.IdGen

	counter, err := m.InitVar8(g.Root, &gen, 10)
	if err != nil {
		return fmt.Errorf("init counter: %w", err)
	}
	cond, err := block.Countdown(&counter, 0)
	if err != nil {
		return fmt.Errorf("build countdown condition: %w", err)
	}
	body := g.Root.LoopBlock(cond, m.Assembler)
	body.PushInstruction(cpu.IncR8(cpu.RegB))

	if errs := m.ResolveMetas(g.Root); len(errs) != 0 {
		return fmt.Errorf("resolve metas: %v", errs[0])
	}
	return nil
}
