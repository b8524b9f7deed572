package main

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeApp struct {
	calls  []string
	serve  ServeOptions
	export ExportOptions
	files  []string
	panel  string
}

func (f *fakeApp) Serve(_ context.Context, opts ServeOptions) error {
	f.calls = append(f.calls, "serve")
	f.serve = opts
	return nil
}

func (f *fakeApp) Import(_ context.Context, _, panel, _ string, files []string) error {
	f.calls = append(f.calls, "import")
	f.panel, f.files = panel, files
	return nil
}

func (f *fakeApp) Watch(_ context.Context, _, _, panel string) error {
	f.calls = append(f.calls, "watch")
	f.panel = panel
	return nil
}

func (f *fakeApp) Export(_ context.Context, opts ExportOptions) error {
	f.calls = append(f.calls, "export")
	f.export = opts
	return nil
}

func (f *fakeApp) Migrate(context.Context, string) error {
	f.calls = append(f.calls, "migrate")
	return nil
}

func TestCLI_DefaultsToServe(t *testing.T) {
	t.Parallel()

	app := &fakeApp{}
	if err := BuildCLI(app).Run(context.Background(), []string{"kpiboard", "--port", "8080", "--no-browser"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := ServeOptions{Port: 8080, NoBrowser: true}
	if diff := cmp.Diff(want, app.serve); diff != "" {
		t.Fatalf("serve options (-want +got):\n%s", diff)
	}
}

func TestCLI_Import(t *testing.T) {
	t.Parallel()

	app := &fakeApp{}
	args := []string{"kpiboard", "import", "--panel", "sales", "a.xlsx", "b.xls"}
	if err := BuildCLI(app).Run(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}
	if app.panel != "sales" || len(app.files) != 2 || app.files[1] != "b.xls" {
		t.Fatalf("import got panel=%q files=%v", app.panel, app.files)
	}

	if err := BuildCLI(&fakeApp{}).Run(context.Background(), []string{"kpiboard", "import"}); err == nil {
		t.Fatalf("import without files should fail")
	}
}

func TestCLI_Subcommands(t *testing.T) {
	t.Parallel()

	app := &fakeApp{}
	for _, args := range [][]string{
		{"kpiboard", "migrate"},
		{"kpiboard", "watch", "--panel", "board"},
		{"kpiboard", "serve", "--dev"},
	} {
		if err := BuildCLI(app).Run(context.Background(), args); err != nil {
			t.Fatalf("run %v: %v", args, err)
		}
	}
	if diff := cmp.Diff([]string{"migrate", "watch", "serve"}, app.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
	if app.panel != "board" || !app.serve.DevMode {
		t.Fatalf("app = %+v", app)
	}
}

func TestCLI_Export(t *testing.T) {
	t.Parallel()

	app := &fakeApp{}
	args := []string{"kpiboard", "export", "--year", "2024", "--month", "3", "-o", "board.xlsx", "board"}
	if err := BuildCLI(app).Run(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := ExportOptions{Dashboard: "board", Year: 2024, Month: 3, Out: "board.xlsx"}
	if diff := cmp.Diff(want, app.export); diff != "" {
		t.Fatalf("export options (-want +got):\n%s", diff)
	}

	if err := BuildCLI(&fakeApp{}).Run(context.Background(), []string{"kpiboard", "export"}); err == nil {
		t.Fatalf("export without a dashboard should fail")
	}
}
