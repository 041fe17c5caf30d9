package models

import "time"

type FileEntry struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	HasText bool   `json:"has_text"`
	Current bool   `json:"current"`
}

type UploadResponse struct {
	Added     int         `json:"added"`
	Extracted int         `json:"extracted"`
	Failed    []string    `json:"failed,omitempty"`
	Files     []FileEntry `json:"files"`
}

type WorkspaceResponse struct {
	ID           string            `json:"id"`
	FileCount    int               `json:"file_count"`
	CurrentIndex int               `json:"current_index"`
	Files        []FileEntry       `json:"files"`
	Requirements []Requirement     `json:"requirements"`
	Analysis     *AnalysisResponse `json:"analysis,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type CurrentFileResponse struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Text    string `json:"text"`
	HasText bool   `json:"has_text"`
	HasPrev bool   `json:"has_prev"`
	HasNext bool   `json:"has_next"`
}

type TextUpdateRequest struct {
	Text string `json:"text"`
}

type RequirementRequest struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

type AnalysisResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Total        int            `json:"total"`
	Processed    int            `json:"processed"`
	CurrentFile  string         `json:"current_file,omitempty"`
	Requirements []Requirement  `json:"requirements"`
	Results      []FileAnalysis `json:"results"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

func NewFileEntries(ws *Workspace) []FileEntry {
	entries := make([]FileEntry, len(ws.Files))
	for i, f := range ws.Files {
		_, hasText := ws.Texts[f.Name]
		entries[i] = FileEntry{
			Index:   i,
			Name:    f.Name,
			Size:    f.Size,
			HasText: hasText,
			Current: i == ws.CurrentIndex,
		}
	}
	return entries
}

func NewWorkspaceResponse(ws *Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:           ws.ID.String(),
		FileCount:    len(ws.Files),
		CurrentIndex: ws.ViewIndex(),
		Files:        NewFileEntries(ws),
		Requirements: ws.Requirements,
		Analysis:     NewAnalysisResponse(ws.Analysis),
		CreatedAt:    ws.CreatedAt,
	}
}

func NewAnalysisResponse(b *AnalysisBatch) *AnalysisResponse {
	if b == nil {
		return nil
	}
	resp := &AnalysisResponse{
		ID:           b.ID.String(),
		Status:       string(b.Status),
		Total:        b.Total(),
		Processed:    b.Processed,
		CurrentFile:  b.CurrentFile,
		Requirements: b.Requirements,
		Results:      b.Results,
	}
	if b.Status == StatusFailed && b.ErrorMessage != "" {
		msg := b.ErrorMessage
		resp.ErrorMessage = &msg
	}
	return resp
}
