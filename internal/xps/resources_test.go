package xps

import (
	"archive/zip"
	"bytes"
	"log/slog"
	"testing"

	"github.com/kfirzuberi/convertflow/internal/opc"
	"github.com/kfirzuberi/convertflow/logging"
)

func buildResourceTestPackage(t *testing.T, files map[string]string) *opc.Package {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zw.Create(%q): %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zw.Close: %v", err)
	}
	pkg, err := opc.OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("opc.OpenReader: %v", err)
	}
	return pkg
}

func TestResolver_RegistersInlineImageBrush(t *testing.T) {
	page := `<FixedPage>
  <Canvas.Resources>
    <ResourceDictionary>
      <ImageBrush x:Key="B1" ImageSource="img.png" Viewport="0,0,200,150"/>
    </ResourceDictionary>
  </Canvas.Resources>
  <Path Fill="{StaticResource B1}" Data="M 0,0 L 200,0 L 200,150 L 0,150 Z"/>
</FixedPage>`

	pkg := buildResourceTestPackage(t, map[string]string{
		"Documents/1/Pages/1.fpage": page,
		"Documents/1/Pages/img.png": "fake-png-bytes",
	})

	root, err := ParseTree([]byte(page))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}

	resolver := NewResolver(pkg)
	resolver.Resolve(root, "Documents/1/Pages")

	res, ok := resolver.Resources["B1"]
	if !ok {
		t.Fatal("expected ImageBrush B1 to be registered")
	}
	if string(res.ImageData) != "fake-png-bytes" {
		t.Errorf("ImageData = %q", res.ImageData)
	}
	if res.Viewport != "0,0,200,150" {
		t.Errorf("Viewport = %q", res.Viewport)
	}
}

func TestResolver_RegistersExternalResourceDictionary(t *testing.T) {
	page := `<FixedPage>
  <Canvas.Resources>
    <ResourceDictionary Source="shared.xaml"/>
  </Canvas.Resources>
</FixedPage>`

	external := `<ResourceDictionary>
  <ImageBrush Key="B2" ImageSource="logo.png"/>
</ResourceDictionary>`

	pkg := buildResourceTestPackage(t, map[string]string{
		"Documents/1/Pages/1.fpage":    page,
		"Documents/1/Pages/shared.xaml": external,
		"Documents/1/Pages/logo.png":    "logo-bytes",
	})

	root, err := ParseTree([]byte(page))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}

	resolver := NewResolver(pkg)
	resolver.Resolve(root, "Documents/1/Pages")

	res, ok := resolver.Resources["B2"]
	if !ok {
		t.Fatal("expected ImageBrush B2 from external dictionary to be registered")
	}
	if string(res.ImageData) != "logo-bytes" {
		t.Errorf("ImageData = %q", res.ImageData)
	}
}

func TestResolver_CollectsGlyphFonts(t *testing.T) {
	page := `<FixedPage>
  <Glyphs UnicodeString="Hi" FontUri="Fonts/a.odttf"/>
</FixedPage>`

	pkg := buildResourceTestPackage(t, map[string]string{
		"Documents/1/Pages/1.fpage":        page,
		"Documents/1/Pages/Fonts/a.odttf":  "font-bytes",
	})

	root, err := ParseTree([]byte(page))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}

	resolver := NewResolver(pkg)
	resolver.Resolve(root, "Documents/1/Pages")

	data, ok := resolver.Fonts["Documents/1/Pages/Fonts/a.odttf"]
	if !ok {
		t.Fatal("expected font to be registered under resolved path")
	}
	if string(data) != "font-bytes" {
		t.Errorf("font data = %q (no UUID in filename, should be unchanged)", data)
	}
}

func TestResolver_MissingResourceSkippedSilently(t *testing.T) {
	page := `<FixedPage>
  <Canvas.Resources>
    <ResourceDictionary>
      <ImageBrush x:Key="B1" ImageSource="missing.png"/>
    </ResourceDictionary>
  </Canvas.Resources>
</FixedPage>`

	pkg := buildResourceTestPackage(t, map[string]string{
		"Documents/1/Pages/1.fpage": page,
	})

	root, err := ParseTree([]byte(page))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}

	handler := logging.NewBufferedLogHandler(nil)
	logging.SetLogger(slog.New(handler))
	defer logging.SetLogger(nil)

	resolver := NewResolver(pkg)
	resolver.Resolve(root, "Documents/1/Pages")

	if _, ok := resolver.Resources["B1"]; ok {
		t.Error("expected B1 to be absent since its image part is missing")
	}
	if !handler.Contains("ResourceMissing") {
		t.Errorf("expected a ResourceMissing warning to be logged, got: %s", handler.String())
	}
}
