package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/benbeisheim/goldchess-backend/internal/model"
)

// Renderer draws game state as text. Colour can be switched off for pipes
// and tests.
type Renderer struct {
	light, dark *color.Color
	selected    *color.Color
	move        *color.Color
	capture     *color.Color
	transfer    *color.Color
	placement   *color.Color
	label       *color.Color
	status      *color.Color
}

func NewRenderer(enableColor bool) *Renderer {
	r := &Renderer{
		light:     color.New(color.FgBlack, color.BgHiWhite),
		dark:      color.New(color.FgBlack, color.BgWhite),
		selected:  color.New(color.FgBlack, color.BgHiBlue),
		move:      color.New(color.FgBlack, color.BgHiGreen),
		capture:   color.New(color.FgBlack, color.BgHiRed),
		transfer:  color.New(color.FgBlack, color.BgHiYellow),
		placement: color.New(color.FgBlack, color.BgHiCyan),
		label:     color.New(color.FgCyan),
		status:    color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{r.light, r.dark, r.selected, r.move, r.capture, r.transfer, r.placement, r.label, r.status} {
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// pieceLabel is the piece letter, upper case for white, followed by its gold.
func pieceLabel(p *model.Piece) string {
	if p == nil {
		return " . "
	}
	letter := p.Type.Notation()
	if p.Color == model.PlayerColorBlack {
		letter = strings.ToLower(letter)
	}
	gold := ""
	if p.Gold > 0 {
		gold = strconv.Itoa(p.Gold)
	}
	return fmt.Sprintf("%-3s", " "+letter+gold)
}

func containsSquare(set []model.Position, p model.Position) bool {
	for _, q := range set {
		if q == p {
			return true
		}
	}
	return false
}

func (r *Renderer) squareColor(st model.GameState, pos model.Position) *color.Color {
	switch {
	case st.Selected != nil && *st.Selected == pos:
		return r.selected
	case containsSquare(st.Captures, pos):
		return r.capture
	case containsSquare(st.Moves, pos):
		return r.move
	case containsSquare(st.Transfers, pos):
		return r.transfer
	case containsSquare(st.Placements, pos):
		return r.placement
	case (pos.X+pos.Y)%2 == 0:
		return r.light
	}
	return r.dark
}

// RenderBoard draws the board from the side to move's point of view.
func (r *Renderer) RenderBoard(w io.Writer, st model.GameState) {
	files := make([]string, model.BoardSize)
	for dy := 0; dy < model.BoardSize; dy++ {
		rank := model.DisplayToBoard(model.Position{X: 0, Y: dy}, st.ToMove).Y
		fmt.Fprint(w, r.label.Sprintf("%d ", model.BoardSize-rank))
		for dx := 0; dx < model.BoardSize; dx++ {
			pos := model.DisplayToBoard(model.Position{X: dx, Y: dy}, st.ToMove)
			if dy == 0 {
				files[dx] = fmt.Sprintf(" %c ", 'a'+pos.X)
			}
			fmt.Fprint(w, r.squareColor(st, pos).Sprint(pieceLabel(st.Board[pos.Y][pos.X])))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, r.label.Sprint("  "+strings.Join(files, "")))
}

// RenderStatus prints whose turn it is, the clocks and any message or menu.
func (r *Renderer) RenderStatus(w io.Writer, st model.GameState) {
	line := fmt.Sprintf("%s to move", st.ToMove)
	if st.IsCheck {
		line += ", check"
	}
	if st.Clock != nil {
		line += fmt.Sprintf("  [white %s | black %s]", st.Clock.White, st.Clock.Black)
	}
	fmt.Fprintln(w, line)

	switch st.Phase {
	case model.PhasePurchase:
		options := make([]string, 0, len(st.PurchaseOptions))
		for _, o := range st.PurchaseOptions {
			mark := ""
			if !o.Affordable {
				mark = "*"
			}
			options = append(options, fmt.Sprintf("%s=%d%s", o.Type.Notation(), o.Cost, mark))
		}
		fmt.Fprintf(w, "Buy: %s  (buy <piece>, esc to cancel)\n", strings.Join(options, " "))
	case model.PhasePlacement:
		fmt.Fprintln(w, "Pick a highlighted square to place the piece.")
	case model.PhasePromotion:
		fmt.Fprintln(w, "Promote to Q, R, B or N  (promote <piece>, esc to cancel)")
	}

	if st.Paused {
		fmt.Fprintln(w, r.status.Sprint("Paused. esc or pause to resume, new to start over."))
	}
	if st.Status != "" {
		fmt.Fprintln(w, r.status.Sprint(st.Status))
	}
	if st.Outcome != nil {
		fmt.Fprintln(w, r.status.Sprint("Game over: "+st.Outcome.String()))
	}
}

func (r *Renderer) RenderLog(w io.Writer, st model.GameState) {
	if len(st.MoveLogLines) == 0 {
		fmt.Fprintln(w, "No moves yet.")
		return
	}
	for _, line := range st.MoveLogLines {
		fmt.Fprintln(w, line)
	}
}
