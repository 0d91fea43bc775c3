package pong

import (
	"fmt"

	"pong-arena/internal/core"
	"pong-arena/internal/match"
)

// paddleColor returns each court position's display color.
func paddleColor(id core.PlayerID) core.Color {
	switch id {
	case core.Player1:
		return core.ColorCyan
	case core.Player2:
		return core.ColorRed
	case core.Player3:
		return core.ColorGreen
	case core.Player4:
		return core.ColorYellow
	default:
		return core.ColorWhite
	}
}

// Render draws the current game state to the screen.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()

	if s.phase == PhaseIdle || s.phase == PhaseInitializing {
		dst.DrawTextCentered(dst.Height()/2, "Preparing court...")
		return
	}

	// Draw center line (net) in two-paddle modes
	centerX := dst.Width() / 2
	if s.mode != match.ModeFour {
		for y := 1; y < dst.Height()-1; y += 2 {
			dst.SetCell(centerX, y, NetChar, core.ColorGray)
		}
	}

	for _, p := range s.paddles {
		s.drawPaddle(dst, p)
	}

	if s.powerups != nil && s.powerups.Current != nil {
		pu := s.powerups.Current
		dst.SetCell(int(pu.X), int(pu.Y), pu.Type.Glyph(), core.ColorBrightYellow)
	}

	// Blink the ball during serve
	if !s.serving || (s.serveDelay/10)%2 == 0 {
		dst.SetCell(int(s.ball.X), int(s.ball.Y), BallChar, core.ColorWhite)
	}

	s.drawHUD(dst)

	if s.paused {
		s.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if s.phase == PhaseGameOver {
		title := "GAME OVER"
		if w, ok := s.Winner(); ok {
			title = fmt.Sprintf("%s WINS!", w.Username)
		}
		s.drawCenteredMessage(dst, title, "Press R to restart, B for menu")
	}
}

// drawPaddle fills the paddle's cells in its owner's color.
func (s *Session) drawPaddle(dst *core.Screen, p *Paddle) {
	rect := p.Rect()
	color := paddleColor(p.Owner)
	x0, y0 := int(rect.X), int(rect.Y)
	x1, y1 := int(rect.Right()+0.5), int(rect.Bottom()+0.5)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dst.SetCell(x, y, PaddleChar, color)
		}
	}
}

// drawHUD writes names, scores, and active effects along the edges.
func (s *Session) drawHUD(dst *core.Screen) {
	p1 := fmt.Sprintf("%s %d", s.players[0].Username, s.scores[core.Player1])
	p2 := fmt.Sprintf("%d %s", s.scores[core.Player2], s.players[1].Username)
	dst.DrawTextColored(1, 0, p1, paddleColor(core.Player1))
	dst.DrawTextColored(dst.Width()-len(p2)-1, 0, p2, paddleColor(core.Player2))

	if s.mode == match.ModeFour {
		p3 := fmt.Sprintf("%s %d", s.players[2].Username, s.scores[core.Player3])
		p4 := fmt.Sprintf("%s %d", s.players[3].Username, s.scores[core.Player4])
		dst.DrawTextColored((dst.Width()-len(p3))/2, 0, p3, paddleColor(core.Player3))
		dst.DrawTextColored((dst.Width()-len(p4))/2, dst.Height()-1, p4, paddleColor(core.Player4))
	}

	// Active effect glyphs with seconds remaining, bottom-left corner.
	if s.powerups == nil || len(s.powerups.Effects) == 0 {
		return
	}
	x := 1
	tickRate := s.runtime.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	for _, e := range s.powerups.Effects {
		secs := (e.TicksRemaining(s.tickCount) + tickRate - 1) / tickRate
		label := fmt.Sprintf("%c%d ", e.Type.Glyph(), secs)
		dst.DrawTextColored(x, dst.Height()-1, label, core.ColorBrightCyan)
		x += len(label)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (s *Session) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(boxX, boxY, boxW, boxH, ' ')
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
