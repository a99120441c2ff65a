//go:build cgo

package hal

import "github.com/hajimehoshi/ebiten/v2"

func (p *hostPointer) poll() {
	x, y := ebiten.CursorPosition()
	p.sample(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y)
}
