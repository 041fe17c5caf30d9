package models

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files(names ...string) []UploadedFile {
	out := make([]UploadedFile, len(names))
	for i, n := range names {
		out[i] = UploadedFile{Name: n, Size: int64(len(n)), Content: []byte(n)}
	}
	return out
}

func assertInvariants(t *testing.T, ws *Workspace) {
	t.Helper()
	for name := range ws.Texts {
		assert.True(t, ws.HasFile(name), "text entry %q has no file", name)
	}
	if len(ws.Files) == 0 {
		assert.Equal(t, 0, ws.CurrentIndex)
		assert.Equal(t, -1, ws.ViewIndex())
	} else {
		assert.GreaterOrEqual(t, ws.CurrentIndex, 0)
		assert.Less(t, ws.CurrentIndex, len(ws.Files))
	}
}

func TestNewWorkspace(t *testing.T) {
	ws := NewWorkspace()

	require.Len(t, ws.Requirements, 1)
	assert.Equal(t, 1, ws.Requirements[0].ID)
	assert.True(t, ws.Requirements[0].IsBlank())
	assert.Empty(t, ws.Files)
	assert.NotNil(t, ws.Texts)
	assertInvariants(t, ws)
}

func TestAddFiles_AppendsWithoutDeduplication(t *testing.T) {
	ws := NewWorkspace()

	added := ws.AddFiles(files("a.pdf", "b.pdf"))
	assert.Len(t, added, 2)

	ws.Next()
	added = ws.AddFiles(files("a.pdf"))
	require.Len(t, added, 1)
	assert.Equal(t, "a.pdf", added[0].Name)

	assert.Len(t, ws.Files, 3)
	assert.Equal(t, 1, ws.CurrentIndex, "second upload keeps the current view")
}

func TestAddFiles_DropsContentFromWorkspace(t *testing.T) {
	ws := NewWorkspace()

	added := ws.AddFiles(files("a.pdf"))
	require.Len(t, added, 1)
	assert.Equal(t, []byte("a.pdf"), added[0].Content)

	require.Len(t, ws.Files, 1)
	assert.Nil(t, ws.Files[0].Content)
	assert.Equal(t, int64(len("a.pdf")), ws.Files[0].Size)

	data, err := json.Marshal(added[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "content")
}

func TestSetText_RejectsUnknownFile(t *testing.T) {
	ws := NewWorkspace()
	ws.AddFiles(files("a.pdf"))

	assert.True(t, ws.SetText("a.pdf", "hello"))
	assert.False(t, ws.SetText("ghost.pdf", "boo"))

	_, ok := ws.Text("ghost.pdf")
	assert.False(t, ok)
	assertInvariants(t, ws)
}

func TestNavigation_IsBounded(t *testing.T) {
	ws := NewWorkspace()
	assert.False(t, ws.Next())
	assert.False(t, ws.Prev())

	ws.AddFiles(files("a.pdf", "b.pdf", "c.pdf"))
	assert.False(t, ws.Prev())
	assert.True(t, ws.Next())
	assert.True(t, ws.Next())
	assert.False(t, ws.Next())
	assert.Equal(t, 2, ws.CurrentIndex)
	assert.True(t, ws.Prev())
	assert.Equal(t, 1, ws.CurrentIndex)
}

func TestRemoveFile(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		remove      int
		wantIndex   int
		wantCurrent string
	}{
		{name: "last while viewing last moves to new last", current: 2, remove: 2, wantIndex: 1, wantCurrent: "b.pdf"},
		{name: "before current keeps same file", current: 2, remove: 0, wantIndex: 1, wantCurrent: "c.pdf"},
		{name: "after current keeps index", current: 0, remove: 1, wantIndex: 0, wantCurrent: "a.pdf"},
		{name: "current in the middle shows next file", current: 1, remove: 1, wantIndex: 1, wantCurrent: "c.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkspace()
			ws.AddFiles(files("a.pdf", "b.pdf", "c.pdf"))
			for _, f := range ws.Files {
				ws.SetText(f.Name, "text of "+f.Name)
			}
			ws.CurrentIndex = tt.current
			removed := ws.Files[tt.remove].Name

			require.NoError(t, ws.RemoveFile(tt.remove))

			assert.Equal(t, tt.wantIndex, ws.CurrentIndex)
			cur, text, ok := ws.Current()
			require.True(t, ok)
			assert.Equal(t, tt.wantCurrent, cur.Name)
			assert.Equal(t, "text of "+tt.wantCurrent, text)
			_, stillThere := ws.Text(removed)
			assert.False(t, stillThere)
			assertInvariants(t, ws)
		})
	}
}

func TestRemoveFile_LastRemainingFile(t *testing.T) {
	ws := NewWorkspace()
	ws.AddFiles(files("only.pdf"))
	ws.SetText("only.pdf", "x")

	require.NoError(t, ws.RemoveFile(0))

	_, _, ok := ws.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, ws.ViewIndex())
	assertInvariants(t, ws)
}

func TestRemoveFile_OutOfRange(t *testing.T) {
	ws := NewWorkspace()
	ws.AddFiles(files("a.pdf"))

	assert.ErrorIs(t, ws.RemoveFile(1), ErrFileIndexOutOfRange)
	assert.ErrorIs(t, ws.RemoveFile(-1), ErrFileIndexOutOfRange)
}

func TestRemoveFile_SameNameTwinLosesText(t *testing.T) {
	ws := NewWorkspace()
	ws.AddFiles(files("cv.pdf", "cv.pdf"))
	ws.SetText("cv.pdf", "shared")

	require.NoError(t, ws.RemoveFile(0))

	assert.Len(t, ws.Files, 1)
	_, ok := ws.Text("cv.pdf")
	assert.False(t, ok)
	assertInvariants(t, ws)
}

func TestClearFiles(t *testing.T) {
	ws := NewWorkspace()
	ws.AddFiles(files("a.pdf", "b.pdf"))
	ws.SetText("a.pdf", "x")
	ws.Requirements[0] = Requirement{ID: 1, Label: "skill", Value: "Go"}
	_, err := ws.BeginAnalysis()
	require.NoError(t, err)
	ws.Analysis.Status = StatusCompleted

	ws.ClearFiles()

	assert.Empty(t, ws.Files)
	assert.Empty(t, ws.Texts)
	assert.Nil(t, ws.Analysis)
	assert.Len(t, ws.Requirements, 1, "requirements survive a clear")
	assertInvariants(t, ws)
}

func TestSaveCurrentText(t *testing.T) {
	ws := NewWorkspace()
	assert.ErrorIs(t, ws.SaveCurrentText("x"), ErrNoFiles)

	ws.AddFiles(files("a.pdf", "b.pdf"))
	ws.SetText("b.pdf", "parsed")
	ws.Next()

	require.NoError(t, ws.SaveCurrentText("edited"))
	text, _ := ws.Text("b.pdf")
	assert.Equal(t, "edited", text)
}

func TestRequirements(t *testing.T) {
	ws := NewWorkspace()
	second := ws.AddRequirement("location", "Berlin")
	third := ws.AddRequirement("", "")
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 3, third.ID)

	_, err := ws.UpdateRequirement(1, " skill ", " Python ")
	require.NoError(t, err)
	require.NoError(t, ws.RemoveRequirement(second.ID))
	assert.ErrorIs(t, ws.RemoveRequirement(second.ID), ErrRequirementNotFound)
	_, err = ws.UpdateRequirement(42, "a", "b")
	assert.ErrorIs(t, err, ErrRequirementNotFound)

	fourth := ws.AddRequirement("x", "y")
	assert.Equal(t, 4, fourth.ID, "ids are never reused")

	assert.Equal(t, []Requirement{
		{ID: 1, Label: "skill", Value: "Python"},
		{ID: 4, Label: "x", Value: "y"},
	}, ws.ValidRequirements())
}

func TestValidRequirements_ExcludesBlankPairs(t *testing.T) {
	labels := []string{"", " ", "skill"}
	values := []string{"", "\t", "Go"}

	for _, l := range labels {
		for _, v := range values {
			reqs := []Requirement{{ID: 1, Label: l, Value: v}}
			got := ValidRequirements(reqs)
			if l == "skill" && v == "Go" {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got, "label=%q value=%q", l, v)
			}
		}
	}
}

func TestBeginAnalysis(t *testing.T) {
	ws := NewWorkspace()

	_, err := ws.BeginAnalysis()
	assert.ErrorIs(t, err, ErrNoFiles)

	ws.AddFiles(files("a.pdf", "b.pdf"))
	_, err = ws.BeginAnalysis()
	assert.ErrorIs(t, err, ErrNoRequirements)

	ws.AddRequirement("skill", "Go")
	ws.SetText("a.pdf", "resume a")

	batch, err := ws.BeginAnalysis()
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, batch.Status)
	assert.Equal(t, 2, batch.Total())
	assert.Equal(t, []AnalysisItem{
		{FileName: "a.pdf", Text: "resume a", HasText: true},
		{FileName: "b.pdf"},
	}, batch.Items)
	assert.Equal(t, []Requirement{{ID: 2, Label: "skill", Value: "Go"}}, batch.Requirements)

	_, err = ws.BeginAnalysis()
	assert.ErrorIs(t, err, ErrAnalysisInProgress)

	ws.Analysis.Status = StatusFailed
	next, err := ws.BeginAnalysis()
	require.NoError(t, err)
	assert.NotEqual(t, batch.ID, next.ID)
}

func TestClone_IsDeep(t *testing.T) {
	ws := NewWorkspace()
	ws.AddFiles(files("a.pdf"))
	ws.SetText("a.pdf", "x")
	ws.AddRequirement("skill", "Go")
	_, err := ws.BeginAnalysis()
	require.NoError(t, err)
	ws.Analysis.Results = append(ws.Analysis.Results, FileAnalysis{
		FileName: "a.pdf",
		Result:   AnalysisResult{MatchScore: 50, MatchingSkills: []string{"Go"}},
	})

	c := ws.Clone()
	c.Texts["a.pdf"] = "changed"
	c.Requirements[0].Label = "changed"
	c.Analysis.Results[0].Result.MatchingSkills[0] = "changed"
	c.Analysis.Status = StatusFailed

	assert.Equal(t, "x", ws.Texts["a.pdf"])
	assert.Equal(t, "", ws.Requirements[0].Label)
	assert.Equal(t, "Go", ws.Analysis.Results[0].Result.MatchingSkills[0])
	assert.Equal(t, StatusQueued, ws.Analysis.Status)
}

// Random add/remove/clear/navigate sequences never break the workspace
// invariants.
func TestWorkspace_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		ws := NewWorkspace()
		for step := 0; step < 40; step++ {
			switch rng.Intn(6) {
			case 0:
				n := rng.Intn(3) + 1
				names := make([]string, n)
				for i := range names {
					names[i] = fmt.Sprintf("f%d.pdf", rng.Intn(5))
				}
				for _, f := range ws.AddFiles(files(names...)) {
					if rng.Intn(4) > 0 {
						ws.SetText(f.Name, "text")
					}
				}
			case 1:
				if len(ws.Files) > 0 {
					require.NoError(t, ws.RemoveFile(rng.Intn(len(ws.Files))))
				}
			case 2:
				ws.Next()
			case 3:
				ws.Prev()
			case 4:
				_ = ws.SaveCurrentText("edited")
			case 5:
				if rng.Intn(5) == 0 {
					ws.ClearFiles()
				}
			}
			assertInvariants(t, ws)
		}
	}
}
