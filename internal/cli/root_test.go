package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	got []string
	err error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, text)
	return nil
}

func noEnv(string) (string, bool) { return "", false }

// execute runs one calc invocation against dataDir.
func execute(t *testing.T, dataDir string, clip *fakeClipboard, args ...string) (string, string, error) {
	t.Helper()
	if clip == nil {
		clip = &fakeClipboard{}
	}
	cmd := newRootCmd(noEnv, clip)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListShowsCalculatorsAndInputs(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), nil, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "circle")
	assert.Contains(t, out, "Circle")
	assert.Contains(t, out, "--field radius=<number> (area, circumference, diameter)")
	assert.Contains(t, out, "--list value=<number>,...")
}

func TestRunScalar(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), nil, "run", "circle", "-f", "radius=3", "-f", "operation=area")
	require.NoError(t, err)
	assert.Equal(t, "28.2743\n", out)
}

func TestRunLists(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, dir, nil, "run", "basic-arithmetic", "-l", "number=1,2,3", "-l", "operation=add,multiply")
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)

	out, _, err = execute(t, dir, nil, "run", "standard-deviation", "--list", "value=2,4,4,4", "--list", "value=5,5,7,9")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestRunComposite(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), nil, "run", "loan", "-f", "amount=12000", "-f", "rate=0", "-f", "term=1")
	require.NoError(t, err)

	assert.Equal(t, "monthly_payment: 1,000.00\ntotal_payment: 12,000.00\ntotal_interest: 0.00\n", out)
}

func TestRunHiddenSummary(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), nil, "run", "percentage", "-f", "val1=50", "-f", "val2=200", "-f", "operation=percent_of")
	require.NoError(t, err)
	assert.Equal(t, "100\n(discount-summary hidden)\n", out)
}

func TestRunSeries(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), nil, "run", "interest",
		"-f", "principal=1000", "-f", "rate=10", "-f", "years=1",
		"-f", "operation=compound", "-f", "compounding=annually")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1,100.00", lines[0])
	assert.Equal(t, "year 0      1000.00", strings.TrimSpace(lines[1]))
	assert.Equal(t, "year 1      1100.00", strings.TrimSpace(lines[2]))
}

func TestRunInvalidInputIsNotAnError(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), nil, "run", "circle", "-f", "radius=abc", "-f", "operation=area")
	require.NoError(t, err)
	assert.Equal(t, "Please enter valid numbers\n", out)
}

func TestRunRejectsUnknownCalculatorAndBadFlags(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), nil, "run", "warp-drive")
	assert.ErrorContains(t, err, `unknown calculator "warp-drive"`)

	_, _, err = execute(t, t.TempDir(), nil, "run", "circle", "-f", "radius")
	assert.ErrorContains(t, err, "want name=value")

	_, _, err = execute(t, t.TempDir(), nil, "run", "mean", "-l", "=1,2")
	assert.ErrorContains(t, err, "want kind=v1,v2,...")
}

func TestRunCopiesResult(t *testing.T) {
	clip := &fakeClipboard{}
	_, stderr, err := execute(t, t.TempDir(), clip, "run", "pentagon", "-f", "side=1", "--copy")
	require.NoError(t, err)

	assert.Equal(t, []string{"1.7205"}, clip.got)
	assert.Equal(t, "Copied!\n", stderr)
}

func TestRunCopyFailureIsNotFatal(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no display")}
	out, stderr, err := execute(t, t.TempDir(), clip, "run", "pentagon", "-f", "side=1", "--copy")
	require.NoError(t, err)

	assert.Equal(t, "1.7205\n", out)
	assert.Empty(t, stderr)
}

func TestHistoryPersistsAcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, dir, nil, "run", "circle", "-f", "radius=1", "-f", "operation=diameter")
	require.NoError(t, err)
	_, _, err = execute(t, dir, nil, "run", "mean", "-l", "value=1,2,3")
	require.NoError(t, err)

	out, _, err := execute(t, dir, nil, "history")
	require.NoError(t, err)
	assert.Equal(t, "Mean (3) = 2\nCircle = 2\n", out)

	_, _, err = execute(t, dir, nil, "history", "clear")
	require.NoError(t, err)

	out, _, err = execute(t, dir, nil, "history")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestThemeCommand(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, dir, nil, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, _, err = execute(t, dir, nil, "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, _, err = execute(t, dir, nil, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, _, err = execute(t, dir, nil, "theme", "sepia")
	assert.Error(t, err)
}

func TestLanguageFlagIsRemembered(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, dir, nil, "--lang", "th", "run", "circle", "-f", "radius=", "-f", "operation=area")
	require.NoError(t, err)
	assert.Equal(t, "กรุณากรอกตัวเลขให้ถูกต้อง\n", out)

	out, _, err = execute(t, dir, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "วงกลม")

	_, _, err = execute(t, dir, nil, "--lang", "xx", "list")
	assert.Error(t, err)
}
