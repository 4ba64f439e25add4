package shell

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kozaktomas/face-shell/internal/labels"
	"github.com/kozaktomas/face-shell/internal/recognizer/mock"
	"github.com/kozaktomas/face-shell/internal/session"
)

func writeFace(t *testing.T, path string, seed uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x*17+y*3) ^ seed})
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

type harness struct {
	shell   *Shell
	session *session.Session
	factory *mock.Factory
	out     *bytes.Buffer
	db      string
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	db := filepath.Join(t.TempDir(), "db")
	factory := mock.NewFactory()
	var out bytes.Buffer
	s := session.New(factory, session.Options{
		Database:     db,
		TemplateSize: image.Pt(8, 8),
		BatchSize:    session.DefaultBatchSize,
		LabelMode:    labels.FilenameMode,
	}, &out)
	return &harness{
		shell:   New(s, strings.NewReader(input), &out, DefaultPrompt),
		session: s,
		factory: factory,
		out:     &out,
		db:      db,
	}
}

func TestUnknownCommandContinues(t *testing.T) {
	h := newHarness(t, "dance now\ncreate LBPH\n")

	if err := h.shell.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := h.out.String()
	if !strings.Contains(out, "Don't recognize command: dance") {
		t.Errorf("missing unknown command message, output: %q", out)
	}
	if !strings.Contains(out, Usage()) {
		t.Errorf("missing usage, output: %q", out)
	}
	if h.session.Recognizer() == nil {
		t.Error("command after the unknown one should still run")
	}
}

func TestUsageListsEveryCommand(t *testing.T) {
	for _, c := range []string{"create", "train", "load", "save", "search", "exit", "quit"} {
		if !strings.Contains(Usage(), c) {
			t.Errorf("usage is missing %s", c)
		}
	}
}

func TestExitStopsLoop(t *testing.T) {
	for _, word := range []string{"exit", "quit"} {
		t.Run(word, func(t *testing.T) {
			h := newHarness(t, word+"\ncreate LBPH\n")

			if err := h.shell.Run(); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if !strings.Contains(h.out.String(), "Exiting..") {
				t.Errorf("missing exit message, output: %q", h.out.String())
			}
			if h.session.Recognizer() != nil {
				t.Error("commands after exit must not run")
			}
		})
	}
}

func TestEndOfInputStops(t *testing.T) {
	h := newHarness(t, "")
	if err := h.shell.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if h.out.String() != DefaultPrompt {
		t.Errorf("output = %q; want a single prompt", h.out.String())
	}
}

func TestLongLineDoesNotStopLoop(t *testing.T) {
	missing := "/" + strings.Repeat("x", 70000) + ".png"
	model := filepath.Join(t.TempDir(), "m.xml")
	h := newHarness(t, "search "+missing+"\ncreate LBPH\nsave "+model+"\nexit")

	if err := h.shell.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := h.out.String()
	if !strings.Contains(out, "Can't find image at "+missing) {
		t.Error("long search line was not executed")
	}
	if len(h.factory.Last().SavedPaths) != 1 {
		t.Errorf("SavedPaths = %v; commands after the long line should run", h.factory.Last().SavedPaths)
	}
	if !strings.Contains(out, "Exiting..") {
		t.Error("final line without newline should run")
	}
}

func TestBlankLineIgnored(t *testing.T) {
	h := newHarness(t, "")
	if h.shell.Execute("   ") {
		t.Error("blank line should not stop the shell")
	}
	if h.out.Len() != 0 {
		t.Errorf("blank line printed %q", h.out.String())
	}
}

func TestPrefixMatch(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("createX lbph")
	if h.session.Recognizer() == nil {
		t.Error("createX should select create")
	}
}

func TestMissingArgumentsPrintUsage(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"create", "usage: create <EIGEN|FISHER|LBPH> <outputDir>"},
		{"train", "usage: train <directoryPath>"},
		{"load", "usage: load <modelPath>"},
		{"search", "usage: search <imagePath>"},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			h := newHarness(t, "")
			if h.shell.Execute(tc.line) {
				t.Error("should not stop")
			}
			if !strings.Contains(h.out.String(), tc.want) {
				t.Errorf("output = %q; want %q", h.out.String(), tc.want)
			}
		})
	}
}

func TestCreateUnknownAlgorithm(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("create SURF " + t.TempDir())

	if !strings.Contains(h.out.String(), "Unknown recognizer: SURF") {
		t.Errorf("output = %q", h.out.String())
	}
	if h.session.Recognizer() != nil {
		t.Error("unknown algorithm must not install a recognizer")
	}
}

func TestTrainMissingDirectory(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("create LBPH")
	missing := filepath.Join(t.TempDir(), "nope")

	h.shell.Execute("train " + missing)

	if !strings.Contains(h.out.String(), "Directory doesn't exist: "+missing) {
		t.Errorf("output = %q", h.out.String())
	}
	if len(h.factory.Last().TrainCalls) != 0 {
		t.Error("recognizer should not be trained")
	}
}

func TestTrainWithoutRecognizer(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("train " + t.TempDir())
	if !strings.Contains(h.out.String(), "No recognizer. Please create a model first.") {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestTrainDatabaseUnset(t *testing.T) {
	factory := mock.NewFactory()
	var out bytes.Buffer
	s := session.New(factory, session.Options{TemplateSize: image.Pt(8, 8)}, &out)
	sh := New(s, strings.NewReader(""), &out, "")

	dir := t.TempDir()
	writeFace(t, filepath.Join(dir, "alice-7.png"), 1)
	sh.Execute("create LBPH")
	sh.Execute("train " + dir)

	if !strings.Contains(out.String(), "Database root is not set") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSearchMissingImage(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("create LBPH")
	missing := filepath.Join(t.TempDir(), "ghost.png")

	h.shell.Execute("search " + missing)

	if !strings.Contains(h.out.String(), "Can't find image at "+missing) {
		t.Errorf("output = %q", h.out.String())
	}
	if h.factory.Last().PredictCalls != 0 {
		t.Error("no prediction should be made")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("create LBPH")

	h.shell.Execute("save")

	if !strings.Contains(h.out.String(), "Please provide file path to save model.") {
		t.Errorf("output = %q", h.out.String())
	}
	if len(h.factory.Last().SavedPaths) != 0 {
		t.Error("library save should not be called")
	}
}

func TestSaveWithoutRecognizer(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("save " + filepath.Join(t.TempDir(), "m.xml"))
	if !strings.Contains(h.out.String(), "Model doesn't exist. Please load or create a model.") {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestLoadWithoutRecognizer(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("load " + filepath.Join(t.TempDir(), "missing.xml"))

	out := h.out.String()
	if !strings.Contains(out, "Model doesn't exist. Please create a model first.") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "Cannot find model") {
		t.Error("file existence must not be checked without a recognizer")
	}
}

func TestLoadMissingModel(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("create LBPH")
	missing := filepath.Join(t.TempDir(), "missing.xml")

	h.shell.Execute("load " + missing)

	if !strings.Contains(h.out.String(), "Cannot find model: "+missing) {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestLibraryErrorIsReported(t *testing.T) {
	h := newHarness(t, "")
	h.shell.Execute("create LBPH")
	h.factory.Last().TrainError = errors.New("cv::Exception: bad argument")

	dir := t.TempDir()
	writeFace(t, filepath.Join(dir, "alice-7.png"), 1)

	if h.shell.Execute("train " + dir) {
		t.Fatal("library errors must not stop the shell")
	}
	if !strings.Contains(h.out.String(), "Error: training failed: cv::Exception: bad argument") {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestFullSession(t *testing.T) {
	faces := t.TempDir()
	writeFace(t, filepath.Join(faces, "alice-7.png"), 1)
	writeFace(t, filepath.Join(faces, "bob-12.png"), 2)
	writeFace(t, filepath.Join(faces, "carol.png"), 3)

	outDir := filepath.Join(t.TempDir(), "output")
	model := filepath.Join(outDir, "faces.xml")

	script := strings.Join([]string{
		"create fisher " + outDir,
		"train " + faces,
		"save " + model,
		"save",
		"search " + filepath.Join(faces, "bob-12.png"),
		"quit",
	}, "\n")
	h := newHarness(t, script)

	if err := h.shell.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := h.out.String()
	for _, want := range []string{
		"FisherFaceRecognizer loaded.",
		"Warning: no label found in carol.png, using -1",
		"Model saved to " + model,
		"Possible match: bob-12.png",
		"Exiting..",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	rec := h.factory.Last()
	if len(rec.SavedPaths) != 2 {
		t.Errorf("SavedPaths = %v; want the model saved twice", rec.SavedPaths)
	}
	for _, name := range []string{"alice-7.png", "bob-12.png", "carol.png"} {
		if _, err := os.Stat(filepath.Join(h.db, "resized", name)); err != nil {
			t.Errorf("missing resized %s: %v", name, err)
		}
	}
}
