package dataset

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDownload(t *testing.T) {
	payload := []byte("archive-bytes")
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	client := NewClient(10*time.Second, testLogger())
	if err := client.Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("downloaded content mismatch: got %q", data)
	}
	if gotUA != userAgent {
		t.Errorf("User-Agent: got %q, want %q", gotUA, userAgent)
	}
}

func TestDownload_SkipsExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be contacted for an existing file")
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cached.bin")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewClient(10*time.Second, testLogger())
	if err := client.Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "old" {
		t.Error("existing file was overwritten")
	}
}

func TestDownload_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.bin")
	client := NewClient(10*time.Second, testLogger())
	if err := client.Download(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("failed download should not leave a destination file")
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "test.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"indiana/CXR_png/a.png": "aaa",
		"indiana/readme.txt":    "hello",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	if err := ExtractZip(src, out); err != nil {
		t.Fatalf("ExtractZip failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "indiana", "CXR_png", "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "aaa" {
		t.Errorf("extracted content mismatch: %q", data)
	}
}

func TestExtractTarXz(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "grid.tar.xz")

	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(xzw)
	body := []byte("defect-image")
	if err := tw.WriteHeader(&tar.Header{
		Name:     "grid/test/bent/000.png",
		Mode:     0o644,
		Size:     int64(len(body)),
		Typeflag: tar.TypeReg,
	}); err != nil {
		t.Fatal(err)
	}
	tw.Write(body)
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := xzw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "mvtec")
	if err := ExtractTarXz(src, out); err != nil {
		t.Fatalf("ExtractTarXz failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "grid", "test", "bent", "000.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, body) {
		t.Errorf("extracted content mismatch: %q", data)
	}
}

func TestExtract_RejectsTraversal(t *testing.T) {
	if _, err := safeJoin(filepath.Join(t.TempDir(), "out"), "../evil.txt"); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b", "2.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "a", "1.png"), 8, 8)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	images := ListImages(dir)
	if len(images) != 2 {
		t.Fatalf("image count: got %d, want 2", len(images))
	}
	if filepath.Base(images[0]) != "1.png" {
		t.Errorf("listing not sorted: %v", images)
	}
}

func TestListImages_MissingRoot(t *testing.T) {
	if images := ListImages(filepath.Join(t.TempDir(), "nope")); len(images) != 0 {
		t.Errorf("expected empty list, got %v", images)
	}
}

func TestStagePNG_GrayscaleAndBounded(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, 1024, 768)

	dst := filepath.Join(dir, "staged", "I01.png")
	if err := StagePNG(src, dst); err != nil {
		t.Fatalf("StagePNG failed: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 512 {
		t.Errorf("staged width: got %d, want 512", img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 384 {
		t.Errorf("staged height: got %d, want 384", img.Bounds().Dy())
	}
}

func TestSelectMedical(t *testing.T) {
	dir := t.TempDir()
	cxr := filepath.Join(dir, "cxr")
	for i := 0; i < 8; i++ {
		writePNG(t, filepath.Join(cxr, string(rune('a'+i))+".png"), 32, 32)
	}
	imagesDir := filepath.Join(dir, "images")

	sel, err := SelectMedical(cxr, imagesDir)
	if err != nil {
		t.Fatalf("SelectMedical failed: %v", err)
	}
	if len(sel) != 3 {
		t.Fatalf("selection count: got %d, want 3", len(sel))
	}
	for i, s := range sel {
		wantID := []string{"I01", "I02", "I03"}[i]
		if s.ID != wantID {
			t.Errorf("id: got %s, want %s", s.ID, wantID)
		}
		if _, err := os.Stat(s.Path); err != nil {
			t.Errorf("staged file missing: %v", err)
		}
	}
}

func TestSelectMedical_EmptyDir(t *testing.T) {
	sel, err := SelectMedical(filepath.Join(t.TempDir(), "none"), t.TempDir())
	if err != nil {
		t.Fatalf("SelectMedical failed: %v", err)
	}
	if len(sel) != 0 {
		t.Errorf("expected no selections, got %d", len(sel))
	}
}

func TestSelectIndustrial(t *testing.T) {
	dir := t.TempDir()
	mvtec := filepath.Join(dir, "mvtec")
	// grid has a defect and a good dir; leather has only good; metal_nut
	// has a defect.
	writePNG(t, filepath.Join(mvtec, "grid", "test", "bent", "000.png"), 32, 32)
	writePNG(t, filepath.Join(mvtec, "grid", "test", "good", "000.png"), 32, 32)
	writePNG(t, filepath.Join(mvtec, "leather", "test", "good", "000.png"), 32, 32)
	writePNG(t, filepath.Join(mvtec, "metal_nut", "test", "scratch", "000.png"), 32, 32)

	sel, err := SelectIndustrial(mvtec, filepath.Join(dir, "images"))
	if err != nil {
		t.Fatalf("SelectIndustrial failed: %v", err)
	}
	if len(sel) != 2 {
		t.Fatalf("selection count: got %d, want 2 (leather has no defects)", len(sel))
	}
	if sel[0].Description != "grid (bent)" {
		t.Errorf("description: got %q, want %q", sel[0].Description, "grid (bent)")
	}
	if sel[1].Description != "metal_nut (scratch)" {
		t.Errorf("description: got %q, want %q", sel[1].Description, "metal_nut (scratch)")
	}
}

func TestSelectSatellite_FromFallbackTiles(t *testing.T) {
	dir := t.TempDir()
	tileDir := filepath.Join(dir, "eurosat")

	paths, err := SyntheticSatelliteTiles(tileDir)
	if err != nil {
		t.Fatalf("SyntheticSatelliteTiles failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("tile count: got %d, want 3", len(paths))
	}

	sel, err := SelectSatellite(tileDir, filepath.Join(dir, "images"), "synthetic fallback")
	if err != nil {
		t.Fatalf("SelectSatellite failed: %v", err)
	}
	if len(sel) != 3 {
		t.Fatalf("selection count: got %d, want 3", len(sel))
	}
	wantIDs := []string{"I07", "I08", "I09"}
	for i, s := range sel {
		if s.ID != wantIDs[i] {
			t.Errorf("id: got %s, want %s", s.ID, wantIDs[i])
		}
	}
}

func TestStagedImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "I02.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "I01.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "other.png"), 8, 8)

	staged := StagedImages(dir)
	if len(staged) != 2 {
		t.Fatalf("staged count: got %d, want 2", len(staged))
	}
	if filepath.Base(staged[0]) != "I01.png" {
		t.Errorf("not sorted: %v", staged)
	}
}
