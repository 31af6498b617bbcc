package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/aidanlsb/corpuscheck/internal/check"
	"github.com/aidanlsb/corpuscheck/internal/consistency"
	"github.com/aidanlsb/corpuscheck/internal/testutil"
)

const ledger = `# Sources

## Primary Sources (Tier A)

### Alpha Paper

**URL**: https://example.com/alpha
`

// reportJSON mirrors check.Report with severities as strings.
type reportJSON struct {
	Action          string `json:"action"`
	PatternsChecked int    `json:"patterns_checked"`
	Results         []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Issues []struct {
			Type     string `json:"type"`
			Severity string `json:"severity"`
		} `json:"issues"`
	} `json:"results"`
	Summary check.Summary `json:"summary"`
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	opts := &globalOptions{}
	cmd := newRootCmd(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = run(cmd, opts)
	return out.String(), errOut.String(), err
}

func alphaPattern() string {
	return testutil.PatternDoc("Alpha", "A", "Specify",
		"## Implementation\n\nSee [Beta](./beta.md).",
		"## Example\n\nSample.",
		"## Related Patterns\n\n- [Beta](./beta.md)",
		"## Sources\n- [Alpha Paper](https://example.com/alpha)",
	)
}

func healthyCorpus(t *testing.T) string {
	t.Helper()
	return testutil.NewTestCorpus(t).
		WithPattern("alpha", alphaPattern()).
		WithPattern("beta", testutil.CompletePattern("Beta", "B", "Specify", "https://example.com/beta")).
		WithLedger(ledger).
		Build().Path
}

func decodeReport(t *testing.T, out string) reportJSON {
	t.Helper()
	var r reportJSON
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("expected JSON report, got %v; out=%s", err, out)
	}
	return r
}

func TestValidateAllJSON(t *testing.T) {
	root := healthyCorpus(t)

	out, _, err := runCLI(t, "validate", "--root", root, "--offline", "--json")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	r := decodeReport(t, out)
	if r.Action != string(check.ActionValidateAll) || r.PatternsChecked != 2 {
		t.Fatalf("action=%q checked=%d, want validate_all/2", r.Action, r.PatternsChecked)
	}
	if r.Summary != (check.Summary{Valid: 2}) {
		t.Errorf("summary = %+v, want 2 valid", r.Summary)
	}
	if r.Results[0].ID != "alpha" || r.Results[1].ID != "beta" {
		t.Errorf("results out of order: %s, %s", r.Results[0].ID, r.Results[1].ID)
	}

	var beta []string
	for _, issue := range r.Results[1].Issues {
		beta = append(beta, issue.Type+"/"+issue.Severity)
	}
	if len(beta) != 1 || beta[0] != "undocumented_source/info" {
		t.Errorf("beta issues = %v, want [undocumented_source/info]", beta)
	}
}

func TestValidateTextSummary(t *testing.T) {
	root := healthyCorpus(t)

	out, _, err := runCLI(t, "validate", "--root", root, "--offline")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "2 patterns checked: 2 valid, 0 needs update, 0 broken") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestValidateSingleBrokenExitsNonZero(t *testing.T) {
	root := testutil.NewTestCorpus(t).
		WithPattern("gamma", testutil.PatternDoc("Gamma", "", "", "See [gone](./gone.md).")).
		Build().Path

	out, stderr, err := runCLI(t, "validate", "gamma", "--root", root, "--type", "links", "--json")
	if !errors.Is(err, errBroken) {
		t.Fatalf("err = %v, want errBroken", err)
	}
	if stderr != "" {
		t.Errorf("broken report should not print an error, stderr=%q", stderr)
	}

	r := decodeReport(t, out)
	if r.Action != string(check.ActionValidateSingle) || len(r.Results) != 1 {
		t.Fatalf("unexpected report: %+v", r)
	}
	res := r.Results[0]
	if res.Status != string(check.StatusBroken) || len(res.Issues) != 1 || res.Issues[0].Type != check.IssueBrokenInternalLink {
		t.Errorf("result = %+v, want one broken_internal_link", res)
	}
}

func TestValidateRequestErrors(t *testing.T) {
	root := healthyCorpus(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown pattern", []string{"validate", "nope"}, check.ErrPatternNotFound},
		{"unknown type", []string{"validate", "--type", "bogus"}, check.ErrUnknownType},
		{"unknown sync action", []string{"sync", "rebuild"}, consistency.ErrUnknownAction},
		{"unknown scope", []string{"sync", "check_consistency", "--scope", "everything"}, consistency.ErrUnknownScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--root", root, "--offline", "--json")
			out, _, err := runCLI(t, args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}

			var resp map[string]string
			if err := json.Unmarshal([]byte(out), &resp); err != nil {
				t.Fatalf("expected JSON error, got %v; out=%s", err, out)
			}
			if len(resp) != 1 || resp["error"] != err.Error() {
				t.Errorf("response = %v, want only error=%q", resp, err.Error())
			}
		})
	}
}

func TestTextErrorGoesToStderr(t *testing.T) {
	root := healthyCorpus(t)

	out, stderr, err := runCLI(t, "validate", "nope", "--root", root, "--offline")
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	if !strings.Contains(stderr, "pattern not found: nope") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestLinksProbesExternalLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	doc := testutil.PatternDoc("Delta", "C", "Plan",
		"## Sources\n- [Live]("+srv.URL+"/live)\n- [Gone]("+srv.URL+"/gone)")
	root := testutil.NewTestCorpus(t).WithPattern("delta", doc).Build().Path

	t.Run("default probes both links", func(t *testing.T) {
		out, _, err := runCLI(t, "links", "--root", root, "--json")
		if !errors.Is(err, errBroken) {
			t.Fatalf("err = %v, want errBroken", err)
		}
		r := decodeReport(t, out)
		if r.Action != string(check.ActionCheckLinks) {
			t.Errorf("action = %q", r.Action)
		}
		issues := r.Results[0].Issues
		if len(issues) != 1 || issues[0].Type != check.IssueBrokenExternalLink {
			t.Errorf("issues = %+v, want one broken_external_link", issues)
		}
	})

	t.Run("snake_case flag limits probes", func(t *testing.T) {
		out, _, err := runCLI(t, "links", "--root", root, "--json", "--max_external_links", "1")
		if err != nil {
			t.Fatalf("links: %v", err)
		}
		if r := decodeReport(t, out); r.Summary.Valid != 1 {
			t.Errorf("summary = %+v, want 1 valid", r.Summary)
		}
	})

	t.Run("verbose logs distinct checked urls", func(t *testing.T) {
		_, stderr, err := runCLI(t, "links", "--root", root, "--json", "--verbose")
		if !errors.Is(err, errBroken) {
			t.Fatalf("err = %v, want errBroken", err)
		}
		if !strings.Contains(stderr, "distinct_urls=2") {
			t.Errorf("stderr = %q, want distinct_urls=2", stderr)
		}
	})

	t.Run("offline skips probes", func(t *testing.T) {
		if _, _, err := runCLI(t, "links", "--root", root, "--offline"); err != nil {
			t.Fatalf("links --offline: %v", err)
		}
	})
}

func TestEvidenceCommand(t *testing.T) {
	root := testutil.NewTestCorpus(t).
		WithPattern("epsilon", testutil.PatternDoc("Epsilon", "A", "Plan")).
		Build().Path

	out, _, err := runCLI(t, "evidence", "--root", root, "--json")
	if err != nil {
		t.Fatalf("evidence: %v", err)
	}
	r := decodeReport(t, out)
	issues := r.Results[0].Issues
	if len(issues) != 1 || issues[0].Type != check.IssueTierMismatch {
		t.Errorf("issues = %+v, want one tier_mismatch", issues)
	}
	if r.Summary.NeedsUpdate != 1 {
		t.Errorf("summary = %+v, want 1 needs update", r.Summary)
	}
}

func TestPatternsAndSources(t *testing.T) {
	root := healthyCorpus(t)

	out, _, err := runCLI(t, "patterns", "--root", root, "--json")
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	var ps struct {
		TotalPatterns int            `json:"total_patterns"`
		ByTier        map[string]int `json:"by_tier"`
		ByPhase       map[string]int `json:"by_phase"`
	}
	if err := json.Unmarshal([]byte(out), &ps); err != nil {
		t.Fatalf("decode: %v; out=%s", err, out)
	}
	if ps.TotalPatterns != 2 || ps.ByTier["A"] != 1 || ps.ByTier["B"] != 1 || ps.ByPhase["specify"] != 2 {
		t.Errorf("summary = %+v", ps)
	}

	out, _, err = runCLI(t, "sources", "--root", root)
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	for _, want := range []string{"1 source", "alpha-paper", "https://example.com/alpha"} {
		if !strings.Contains(out, want) {
			t.Errorf("sources output missing %q:\n%s", want, out)
		}
	}
}

func TestSyncVerifyCrossRefs(t *testing.T) {
	root := healthyCorpus(t)

	out, _, err := runCLI(t, "sync", "verify-cross-refs", "--root", root, "--json")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	var res consistency.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v; out=%s", err, out)
	}
	want := consistency.MissingCrossRef{
		Pattern:         "beta",
		ShouldReference: "alpha",
		Reason:          "alpha references beta, but not vice versa",
	}
	if len(res.MissingCrossRefs) != 1 || res.MissingCrossRefs[0] != want {
		t.Errorf("missing_cross_refs = %+v, want [%+v]", res.MissingCrossRefs, want)
	}
}

func TestSyncCheckConsistencySources(t *testing.T) {
	root := healthyCorpus(t)

	out, _, err := runCLI(t, "sync", "check_consistency", "--scope", "sources", "--root", root, "--json")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	var res consistency.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v; out=%s", err, out)
	}
	if len(res.Inconsistencies) != 1 || res.Inconsistencies[0].File != "patterns/beta.md" {
		t.Errorf("inconsistencies = %+v, want one for patterns/beta.md", res.Inconsistencies)
	}
}

func TestRootFromEnvironment(t *testing.T) {
	root := healthyCorpus(t)
	t.Setenv(RootEnvVar, root)

	out, _, err := runCLI(t, "patterns", "--json")
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	if !strings.Contains(out, `"total_patterns": 2`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nowhere")
	_, _, err := runCLI(t, "patterns", "--root", missing)
	if err == nil || !strings.Contains(err.Error(), "corpus root not found") {
		t.Errorf("err = %v, want corpus root not found", err)
	}
}

func TestConfigLayout(t *testing.T) {
	root := testutil.NewTestCorpus(t).
		WithConfig("patterns_dir = \"docs/patterns\"\n").
		WithFile("docs/patterns/zeta.md", testutil.PatternDoc("Zeta", "D", "")).
		WithPattern("ignored", testutil.PatternDoc("Ignored", "", "")).
		Build().Path

	out, _, err := runCLI(t, "patterns", "--root", root, "--json")
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	if !strings.Contains(out, `"id": "zeta"`) || strings.Contains(out, `"id": "ignored"`) {
		t.Errorf("config layout not applied:\n%s", out)
	}

	bad := testutil.NewTestCorpus(t).WithConfig("colour = \"red\"\n").Build().Path
	if _, _, err := runCLI(t, "patterns", "--root", bad); err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Errorf("err = %v, want unknown keys error", err)
	}
}

func TestOutputFile(t *testing.T) {
	root := healthyCorpus(t)
	dest := filepath.Join(t.TempDir(), "report.json")

	out, _, err := runCLI(t, "validate", "--root", root, "--offline", "--json", "--output", dest)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty when --output is set", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if r := decodeReport(t, string(data)); r.PatternsChecked != 2 {
		t.Errorf("patterns_checked = %d, want 2", r.PatternsChecked)
	}
}

func TestInitCreatesConfigOnce(t *testing.T) {
	c := testutil.NewTestCorpus(t).Build()
	root := c.Path

	out, _, err := runCLI(t, "init", "--root", root, "--json")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	var res initResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v; out=%s", err, out)
	}
	if !res.Created {
		t.Error("first init should create the config")
	}
	c.AssertFileExists("corpuscheck.toml")
	c.AssertFileContains("corpuscheck.toml", `patterns_dir = "patterns"`)

	out, _, err = runCLI(t, "init", "--root", root)
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out, "Config already exists") {
		t.Errorf("second init output = %q", out)
	}
}

func TestVersionJSON(t *testing.T) {
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.24.1",
			Main:      debug.Module{Path: defaultModulePath, Version: "v0.2.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	out, _, err := runCLI(t, "version", "--json", "--root", filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info versionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v; out=%s", err, out)
	}
	if info.Version != "v0.2.0" || info.Commit != "abc123" || !info.Modified || info.GoVersion != "go1.24.1" {
		t.Errorf("info = %+v", info)
	}
}

func TestCurrentVersionInfoWithoutBuildInfo(t *testing.T) {
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	info := currentVersionInfo()
	if info.Version != "devel" || info.ModulePath != defaultModulePath {
		t.Errorf("info = %+v, want devel build of %s", info, defaultModulePath)
	}
}
