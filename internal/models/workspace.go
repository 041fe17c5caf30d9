package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Requirement is one user-defined (label, value) criterion.
type Requirement struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

func (r Requirement) IsBlank() bool {
	return strings.TrimSpace(r.Label) == "" || strings.TrimSpace(r.Value) == ""
}

// Workspace is the whole state of one matching session: uploaded files, the
// text extracted from them, the file under review, the requirement list and
// the latest analysis batch.
//
// The keys of Texts are always a subset of the names in Files, and
// CurrentIndex stays within [0, len(Files)-1] (0 when there are no files).
type Workspace struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Files          []UploadedFile    `gorm:"serializer:json" json:"files"`
	Texts          map[string]string `gorm:"serializer:json" json:"texts"`
	CurrentIndex   int               `gorm:"not null;default:0" json:"current_index"`
	Requirements   []Requirement     `gorm:"serializer:json" json:"requirements"`
	RequirementSeq int               `gorm:"not null;default:0" json:"requirement_seq"`
	Analysis       *AnalysisBatch    `gorm:"serializer:json" json:"analysis,omitempty"`
	AnalysisStatus AnalysisStatus    `gorm:"type:text;index" json:"-"`
	CreatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

// NewWorkspace returns an empty workspace holding one blank requirement pair.
func NewWorkspace() *Workspace {
	now := time.Now()
	ws := &Workspace{
		ID:        uuid.New(),
		Texts:     make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
	ws.AddRequirement("", "")
	return ws
}

// AddFiles appends files without de-duplication and returns the newly
// added ones with their content, which the workspace itself does not keep.
// The view resets to the first file when the list was empty.
func (w *Workspace) AddFiles(files []UploadedFile) []UploadedFile {
	if len(files) == 0 {
		return nil
	}
	if len(w.Files) == 0 {
		w.CurrentIndex = 0
	}
	for _, f := range files {
		w.Files = append(w.Files, f.WithoutContent())
	}
	return slices.Clone(files)
}

func (w *Workspace) HasFile(name string) bool {
	return slices.ContainsFunc(w.Files, func(f UploadedFile) bool {
		return f.Name == name
	})
}

// SetText stores extracted text for name. It refuses names that are not in
// the file list, so a file removed while it was being parsed leaves no entry.
func (w *Workspace) SetText(name, text string) bool {
	if !w.HasFile(name) {
		return false
	}
	if w.Texts == nil {
		w.Texts = make(map[string]string)
	}
	w.Texts[name] = text
	return true
}

func (w *Workspace) Text(name string) (string, bool) {
	text, ok := w.Texts[name]
	return text, ok
}

// RemoveFile deletes the file at index together with its text entry.
func (w *Workspace) RemoveFile(index int) error {
	if index < 0 || index >= len(w.Files) {
		return ErrFileIndexOutOfRange
	}

	delete(w.Texts, w.Files[index].Name)
	w.Files = slices.Delete(w.Files, index, index+1)

	if index < w.CurrentIndex {
		w.CurrentIndex--
	}
	if w.CurrentIndex >= len(w.Files) {
		w.CurrentIndex = max(0, len(w.Files)-1)
	}
	return nil
}

// ClearFiles drops every file, every extracted text and the analysis results.
func (w *Workspace) ClearFiles() {
	w.Files = nil
	w.Texts = make(map[string]string)
	w.CurrentIndex = 0
	w.Analysis = nil
}

func (w *Workspace) Next() bool {
	if w.CurrentIndex < len(w.Files)-1 {
		w.CurrentIndex++
		return true
	}
	return false
}

func (w *Workspace) Prev() bool {
	if w.CurrentIndex > 0 && len(w.Files) > 0 {
		w.CurrentIndex--
		return true
	}
	return false
}

// Current returns the file under review and its extracted text. ok is false
// when no file is loaded.
func (w *Workspace) Current() (file UploadedFile, text string, ok bool) {
	if len(w.Files) == 0 {
		return UploadedFile{}, "", false
	}
	file = w.Files[w.CurrentIndex]
	text = w.Texts[file.Name]
	return file, text, true
}

// ViewIndex is CurrentIndex, or -1 when there is no file to show.
func (w *Workspace) ViewIndex() int {
	if len(w.Files) == 0 {
		return -1
	}
	return w.CurrentIndex
}

// SaveCurrentText overwrites the stored text of the file under review.
func (w *Workspace) SaveCurrentText(text string) error {
	file, _, ok := w.Current()
	if !ok {
		return ErrNoFiles
	}
	w.SetText(file.Name, text)
	return nil
}

func (w *Workspace) AddRequirement(label, value string) Requirement {
	w.RequirementSeq++
	req := Requirement{ID: w.RequirementSeq, Label: label, Value: value}
	w.Requirements = append(w.Requirements, req)
	return req
}

func (w *Workspace) UpdateRequirement(id int, label, value string) (Requirement, error) {
	i := slices.IndexFunc(w.Requirements, func(r Requirement) bool { return r.ID == id })
	if i < 0 {
		return Requirement{}, ErrRequirementNotFound
	}
	w.Requirements[i].Label = label
	w.Requirements[i].Value = value
	return w.Requirements[i], nil
}

func (w *Workspace) RemoveRequirement(id int) error {
	i := slices.IndexFunc(w.Requirements, func(r Requirement) bool { return r.ID == id })
	if i < 0 {
		return ErrRequirementNotFound
	}
	w.Requirements = slices.Delete(w.Requirements, i, i+1)
	return nil
}

// ValidRequirements returns the trimmed pairs that have both a label and a
// value, in list order.
func (w *Workspace) ValidRequirements() []Requirement {
	return ValidRequirements(w.Requirements)
}

func ValidRequirements(reqs []Requirement) []Requirement {
	out := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		if r.IsBlank() {
			continue
		}
		out = append(out, Requirement{
			ID:    r.ID,
			Label: strings.TrimSpace(r.Label),
			Value: strings.TrimSpace(r.Value),
		})
	}
	return out
}

// BeginAnalysis snapshots the files and valid requirements into a new queued
// batch, replacing any finished one.
func (w *Workspace) BeginAnalysis() (*AnalysisBatch, error) {
	if w.Analysis != nil && w.Analysis.IsActive() {
		return nil, ErrAnalysisInProgress
	}
	if len(w.Files) == 0 {
		return nil, ErrNoFiles
	}
	reqs := w.ValidRequirements()
	if len(reqs) == 0 {
		return nil, ErrNoRequirements
	}

	items := make([]AnalysisItem, 0, len(w.Files))
	for _, f := range w.Files {
		text, ok := w.Texts[f.Name]
		items = append(items, AnalysisItem{FileName: f.Name, Text: text, HasText: ok})
	}

	w.Analysis = &AnalysisBatch{
		ID:           uuid.New(),
		Status:       StatusQueued,
		Requirements: reqs,
		Items:        items,
		Results:      []FileAnalysis{},
		CreatedAt:    time.Now(),
	}
	return w.Analysis, nil
}

// Results returns the results of the latest batch, or nil.
func (w *Workspace) Results() []FileAnalysis {
	if w.Analysis == nil {
		return nil
	}
	return w.Analysis.Results
}

// Clone returns a deep copy, so stores can hand out workspaces without
// sharing mutable state.
func (w *Workspace) Clone() *Workspace {
	c := *w
	c.Files = slices.Clone(w.Files)
	c.Texts = make(map[string]string, len(w.Texts))
	for k, v := range w.Texts {
		c.Texts[k] = v
	}
	c.Requirements = slices.Clone(w.Requirements)
	c.Analysis = w.Analysis.clone()
	return &c
}
