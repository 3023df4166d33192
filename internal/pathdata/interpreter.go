package pathdata

import "github.com/kfirzuberi/convertflow/internal/graphics"

// operandCounts gives the number of numeric operands consumed per step of
// each command. An A-command step takes seven full numeric operands
// (radii, rotation, the two flags, endpoint); flags written run together
// without a separator are read as one number, not split apart.
var operandCounts = map[byte]int{
	'F': 1,
	'M': 2, 'm': 2,
	'L': 2, 'l': 2,
	'H': 1, 'h': 1,
	'V': 1, 'v': 1,
	'C': 6, 'c': 6,
	'Q': 4, 'q': 4,
	'A': 7, 'a': 7,
}

// Interpret replays a path-data string's commands onto a new
// internal/graphics.Path. Per the mini-language's grammar, an operand
// group with more numbers than one command step consumes implicitly
// repeats the same command for the remaining operands. Unknown command
// letters are skipped without error.
func Interpret(d string) *graphics.Path {
	tokens := Tokenize(d)
	path := graphics.NewPath()

	var cx, cy float64 // current point
	var sx, sy float64 // current subpath start

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if tok.Kind != TokenCommand {
			i++ // stray operand with no command; skip
			continue
		}
		cmd := tok.Command
		i++

		count, known := operandCounts[cmd]
		if !known {
			if cmd == 'Z' || cmd == 'z' {
				path.Close()
				cx, cy = sx, sy
			}
			continue
		}

		firstStep := true
		for {
			operands, consumed, ok := takeOperands(tokens, i, count)
			if !ok {
				break
			}
			i += consumed

			switch cmd {
			case 'M', 'm':
				x, y := applyRelative(cmd == 'm', cx, cy, operands[0], operands[1])
				if firstStep {
					path.MoveTo(x, y)
					sx, sy = x, y
				} else {
					path.LineTo(x, y)
				}
				cx, cy = x, y

			case 'L', 'l':
				x, y := applyRelative(cmd == 'l', cx, cy, operands[0], operands[1])
				path.LineTo(x, y)
				cx, cy = x, y

			case 'H', 'h':
				x := operands[0]
				if cmd == 'h' {
					x += cx
				}
				path.LineTo(x, cy)
				cx = x

			case 'V', 'v':
				y := operands[0]
				if cmd == 'v' {
					y += cy
				}
				path.LineTo(cx, y)
				cy = y

			case 'C', 'c':
				rel := cmd == 'c'
				x1, y1 := applyRelative(rel, cx, cy, operands[0], operands[1])
				x2, y2 := applyRelative(rel, cx, cy, operands[2], operands[3])
				x, y := applyRelative(rel, cx, cy, operands[4], operands[5])
				path.CurveTo(x1, y1, x2, y2, x, y)
				cx, cy = x, y

			case 'Q', 'q':
				rel := cmd == 'q'
				qx, qy := applyRelative(rel, cx, cy, operands[0], operands[1])
				x, y := applyRelative(rel, cx, cy, operands[2], operands[3])
				x1, y1, x2, y2 := quadraticToCubicControls(cx, cy, qx, qy, x, y)
				path.CurveTo(x1, y1, x2, y2, x, y)
				cx, cy = x, y

			case 'A', 'a':
				rel := cmd == 'a'
				rx, ry := operands[0], operands[1]
				rot := operands[2]
				largeArc := operands[3] != 0
				sweep := operands[4] != 0
				x, y := applyRelative(rel, cx, cy, operands[5], operands[6])

				for _, seg := range arcToBeziers(cx, cy, rx, ry, rot, largeArc, sweep, x, y) {
					path.CurveTo(seg.x1, seg.y1, seg.x2, seg.y2, seg.x, seg.y)
				}
				cx, cy = x, y

			case 'F':
				// fill-rule flag: consumed, no drawing effect
			}

			firstStep = false
		}
	}

	return path
}

// quadraticToCubicControls elevates a quadratic Bézier (current point,
// control qx/qy, endpoint x/y) to the equivalent cubic's two control
// points.
func quadraticToCubicControls(cx, cy, qx, qy, x, y float64) (x1, y1, x2, y2 float64) {
	x1 = cx + 2.0/3.0*(qx-cx)
	y1 = cy + 2.0/3.0*(qy-cy)
	x2 = x + 2.0/3.0*(qx-x)
	y2 = y + 2.0/3.0*(qy-y)
	return
}

func applyRelative(relative bool, cx, cy, dx, dy float64) (x, y float64) {
	if relative {
		return cx + dx, cy + dy
	}
	return dx, dy
}

// takeOperands reads count numeric operands starting at tokens[i]. Returns
// ok=false if fewer than count numbers are available before the stream
// ends or the next command token begins.
func takeOperands(tokens []Token, i, count int) (operands []float64, consumed int, ok bool) {
	operands = make([]float64, 0, count)
	for j := 0; j < count; j++ {
		if i+j >= len(tokens) || tokens[i+j].Kind != TokenNumber {
			return nil, 0, false
		}
		operands = append(operands, tokens[i+j].Number)
	}
	return operands, count, true
}
