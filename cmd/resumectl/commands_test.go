package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/ats"
	"resume-builder/resume/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	raw, err := model.ExportJSON(sampleResume())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestSampleIsValid(t *testing.T) {
	out, err := run(t, "sample")
	require.NoError(t, err)
	_, err = model.ImportJSON([]byte(out))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writeSample(t))
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"skills":[{"level":"Guru"}]}`), 0o600))
	_, err = run(t, "validate", bad)
	assert.ErrorIs(t, err, model.ErrInvalidJSON)
}

func TestExportWritesEveryFormat(t *testing.T) {
	outDir := t.TempDir()
	out, err := run(t, "export", "--in", writeSample(t), "--out", outDir, "--format", "docx,html")
	require.NoError(t, err)

	for _, name := range []string{"Jordan_Resume.docx", "Jordan_Resume.html"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
		assert.Contains(t, out, name)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "export", "--in", writeSample(t), "--out", t.TempDir(), "--format", "rtf")
	assert.Error(t, err)
}

func TestScoreJSONMatchesHeuristic(t *testing.T) {
	out, err := run(t, "score", writeSample(t))
	require.NoError(t, err)
	var got ats.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, ats.Score(ats.Text(sampleResume())), got)
}

func TestSummaryUsesMockWithoutCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("USE_MOCK_AI", "true")
	path := writeSample(t)

	_, err := run(t, "summary", "--write", path)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	data, err := model.ImportJSON(raw)
	require.NoError(t, err)
	assert.Contains(t, data.PersonalInfo.Summary, "professional")
}
