package graphics

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a solid RGB color with components normalized to [0, 1].
type Color struct {
	R, G, B float64
}

// ColorRGBA is a solid RGB color with an alpha channel, both normalized to [0, 1].
//
// XPS fill and stroke brushes carry alpha in their hex color string
// (the #AARRGGBB form); ColorRGBA keeps that channel around for callers
// that need it, even though the PDF content stream itself has no notion
// of per-color alpha.
type ColorRGBA struct {
	R, G, B, A float64
}

// RGB creates a Color from 8-bit RGB values (0-255).
func RGB(r, g, b uint8) Color {
	return Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// Hex parses a hex color string into a ColorRGBA.
//
// Supported formats, with or without a leading '#':
//
//	RGB      short form, e.g. "F00" = opaque red
//	RRGGBB   long form, e.g. "FF0000" = opaque red
//	ARGB     XPS short alpha form, e.g. "0F00" = transparent red (first digit is alpha)
//	AARRGGBB XPS long alpha form, e.g. "80FF0000" = half-transparent red
//
// XPS brush colors are always written AARRGGBB or RRGGBB; the 3/4-digit
// short forms are accepted for parity with the teacher's original Hex.
func Hex(hex string) (ColorRGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		r, g, b, err := parseHexTriple(hex[0:1], hex[1:2], hex[2:3])
		if err != nil {
			return ColorRGBA{}, err
		}
		return ColorRGBA{R: r, G: g, B: b, A: 1}, nil

	case 4:
		a, err := parseHexComponent(hex[0:1])
		if err != nil {
			return ColorRGBA{}, err
		}
		r, g, b, err := parseHexTriple(hex[1:2], hex[2:3], hex[3:4])
		if err != nil {
			return ColorRGBA{}, err
		}
		return ColorRGBA{R: r, G: g, B: b, A: a}, nil

	case 6:
		r, g, b, err := parseHexByteTriple(hex[0:2], hex[2:4], hex[4:6])
		if err != nil {
			return ColorRGBA{}, err
		}
		return ColorRGBA{R: r, G: g, B: b, A: 1}, nil

	case 8:
		a, err := parseHexByte(hex[0:2])
		if err != nil {
			return ColorRGBA{}, err
		}
		r, g, b, err := parseHexByteTriple(hex[2:4], hex[4:6], hex[6:8])
		if err != nil {
			return ColorRGBA{}, err
		}
		return ColorRGBA{R: r, G: g, B: b, A: a}, nil

	default:
		return ColorRGBA{}, fmt.Errorf("invalid hex color length: expected 3, 4, 6 or 8 characters, got %d", len(hex))
	}
}

// HexColor parses a hex color string and discards the alpha channel,
// returning a solid Color. Most XPS Path/Glyphs Fill and Stroke
// attributes are consumed this way since the PDF content stream has no
// alpha compositing.
func HexColor(hex string) (Color, error) {
	c, err := Hex(hex)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

func parseHexComponent(s string) (float64, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color: %w", err)
	}
	return float64(v*16+v) / 255.0, nil
}

func parseHexTriple(rs, gs, bs string) (r, g, b float64, err error) {
	if r, err = parseHexComponent(rs); err != nil {
		return
	}
	if g, err = parseHexComponent(gs); err != nil {
		return
	}
	if b, err = parseHexComponent(bs); err != nil {
		return
	}
	return
}

func parseHexByte(s string) (float64, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color: %w", err)
	}
	return float64(v) / 255.0, nil
}

func parseHexByteTriple(rs, gs, bs string) (r, g, b float64, err error) {
	if r, err = parseHexByte(rs); err != nil {
		return
	}
	if g, err = parseHexByte(gs); err != nil {
		return
	}
	if b, err = parseHexByte(bs); err != nil {
		return
	}
	return
}
