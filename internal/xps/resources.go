package xps

import (
	"github.com/kfirzuberi/convertflow/internal/opc"
	"github.com/kfirzuberi/convertflow/logging"
)

// ImageBrushResource is a registered ImageBrush: its decoded image bytes
// plus the Transform/Viewport/Viewbox strings captured verbatim for the
// emitter to parse later.
type ImageBrushResource struct {
	ImageData []byte
	Transform string
	Viewport  string
	Viewbox   string
}

// ResourceTable maps an ImageBrush's resource key (its x:Key or Key
// attribute) to the registered resource.
type ResourceTable map[string]*ImageBrushResource

// FontTable maps a Glyphs element's FontUri (resolved against the page's
// base path) to its deobfuscated TrueType byte buffer.
type FontTable map[string][]byte

// Resolver walks a FixedPage tree collecting ImageBrush resources and
// Glyphs font references, per the resource-resolution algorithm.
type Resolver struct {
	pkg       *opc.Package
	Resources ResourceTable
	Fonts     FontTable
}

// NewResolver creates a Resolver bound to an open package.
func NewResolver(pkg *opc.Package) *Resolver {
	return &Resolver{
		pkg:       pkg,
		Resources: make(ResourceTable),
		Fonts:     make(FontTable),
	}
}

// Resolve traverses root depth-first, registering every ImageBrush found
// under a Canvas.Resources subtree and every font referenced by a Glyphs
// element's FontUri, resolving relative references against basePath.
func (r *Resolver) Resolve(root *Node, basePath string) {
	type frame struct {
		node *Node
	}
	stack := []frame{{root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node

		switch n.Tag {
		case "Canvas.Resources":
			r.collectResources(n, basePath)
			continue // resources subtrees are not part of the visual tree
		case "ResourceDictionary":
			r.collectResources(n, basePath)
			continue
		case "Glyphs":
			r.collectGlyphFont(n, basePath)
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.Children[i]})
		}
	}
}

// collectResources registers every ImageBrush reachable from a
// Canvas.Resources or ResourceDictionary node: inline ResourceDictionary
// children directly, and a dictionary's external Source part if present.
func (r *Resolver) collectResources(n *Node, basePath string) {
	var dicts []*Node
	if n.Tag == "ResourceDictionary" {
		dicts = append(dicts, n)
	} else {
		for _, child := range n.Children {
			if child.Tag == "ResourceDictionary" {
				dicts = append(dicts, child)
			}
		}
	}

	for _, dict := range dicts {
		r.registerImageBrushes(dict, basePath)

		if src, ok := dict.Attr("Source"); ok {
			extPath := opc.ResolvePart(basePath, src)
			data, ok := r.pkg.ReadBytes(extPath)
			if !ok {
				logging.Logger().Warn("ResourceMissing: external resource dictionary unreadable", "part", extPath)
				continue
			}
			extRoot, err := ParseTree(data)
			if err != nil {
				logging.Logger().Warn("ResourceMissing: external resource dictionary unparsable", "part", extPath, "error", err)
				continue
			}
			extBase := opc.PartDir(extPath)
			r.registerImageBrushes(extRoot, extBase)
		}
	}
}

func (r *Resolver) registerImageBrushes(dict *Node, basePath string) {
	for _, child := range dict.Children {
		if child.Tag != "ImageBrush" {
			continue
		}
		key, ok := child.Attr("x:Key")
		if !ok {
			key, ok = child.Attr("Key")
		}
		if !ok {
			continue
		}

		source, ok := child.Attr("ImageSource")
		if !ok {
			continue
		}
		imgPath := opc.ResolvePart(basePath, source)
		data, ok := r.pkg.ReadBytes(imgPath)
		if !ok {
			logging.Logger().Warn("ResourceMissing: ImageBrush source unreadable", "key", key, "part", imgPath)
			continue
		}

		r.Resources[key] = &ImageBrushResource{
			ImageData: data,
			Transform: child.AttrOr("Transform", ""),
			Viewport:  child.AttrOr("Viewport", ""),
			Viewbox:   child.AttrOr("Viewbox", ""),
		}
	}
}

func (r *Resolver) collectGlyphFont(n *Node, basePath string) {
	uri, ok := n.Attr("FontUri")
	if !ok {
		return
	}
	fontPath := opc.ResolvePart(basePath, uri)
	if _, already := r.Fonts[fontPath]; already {
		return
	}

	data, ok := r.pkg.ReadBytes(fontPath)
	if !ok {
		logging.Logger().Warn("ResourceMissing: Glyphs font part unreadable", "part", fontPath)
		return
	}
	r.Fonts[fontPath] = Deobfuscate(data, fontPath)
}
