// Package api is the HTTP client for the generation service and history
// store. Responses are normalized at this boundary; the viewer core only
// ever sees the canonical record shapes.
package api

import "encoding/json"

// Stage markers for the staged generation pipeline.
const (
	StagePreview = "preview"
	StageRefined = "refined"
)

// GenerateResponse is the generation service's response to preview,
// generate, and refine requests.
type GenerateResponse struct {
	Success      bool
	ModelID      string
	ModelURL     string
	PreviewURL   string
	Message      string
	QualityScore float64
	TaskID       string
	Stage        string
	DownloadURLs map[string]string
}

// UnmarshalJSON accepts both snake_case and camelCase keys, and treats
// thumbnail_url as an alias of preview_url.
func (g *GenerateResponse) UnmarshalJSON(data []byte) error {
	var raw rawObject
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Success = raw.boolKey("success")
	g.ModelID = raw.stringKey("model_id")
	g.ModelURL = raw.stringKey("model_url")
	g.PreviewURL = raw.stringKey("preview_url")
	if g.PreviewURL == "" {
		g.PreviewURL = raw.stringKey("thumbnail_url")
	}
	g.Message = raw.stringKey("message")
	g.QualityScore = raw.floatKey("quality_score")
	g.TaskID = raw.stringKey("task_id")
	g.Stage = raw.stringKey("stage")
	g.DownloadURLs = raw.urlMapKey("download_urls")
	return nil
}

// ModelRecord is a history store entry in canonical form.
type ModelRecord struct {
	ID           string
	InputType    string
	InputContent string
	Complexity   string
	Format       string
	Stage        string
	ModelURL     string
	PreviewURL   string
	DownloadURLs map[string]string
	QualityScore float64
	CreatedAt    string
	TaskID       string
}

// UnmarshalJSON accepts both snake_case and camelCase spellings for every
// field.
func (m *ModelRecord) UnmarshalJSON(data []byte) error {
	var raw rawObject
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.ID = raw.stringKey("id")
	m.InputType = raw.stringKey("input_type")
	m.InputContent = raw.stringKey("input_content")
	m.Complexity = raw.stringKey("complexity")
	m.Format = raw.stringKey("format")
	m.Stage = raw.stringKey("stage")
	m.ModelURL = raw.stringKey("model_url")
	m.PreviewURL = raw.stringKey("preview_url")
	if m.PreviewURL == "" {
		m.PreviewURL = raw.stringKey("thumbnail_url")
	}
	m.DownloadURLs = raw.urlMapKey("download_urls")
	m.QualityScore = raw.floatKey("quality_score")
	m.CreatedAt = raw.stringKey("created_at")
	m.TaskID = raw.stringKey("task_id")
	return nil
}

// Stats is the statistics aggregator's response, passed through unreduced.
type Stats struct {
	TotalModels    int     `json:"total_models"`
	AverageQuality float64 `json:"average_quality"`
}

// TextRequest is the payload for text-driven generation.
type TextRequest struct {
	Text       string `json:"text"`
	Complexity string `json:"complexity,omitempty"`
	Format     string `json:"format,omitempty"`
}

// rawObject supports key lookup under either naming convention.
type rawObject map[string]json.RawMessage

// get returns the raw value for the snake_case key or its camelCase
// spelling.
func (r rawObject) get(snake string) (json.RawMessage, bool) {
	if v, ok := r[snake]; ok {
		return v, true
	}
	if v, ok := r[snakeToCamel(snake)]; ok {
		return v, true
	}
	return nil, false
}

func (r rawObject) stringKey(key string) string {
	v, ok := r.get(key)
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal(v, &s)
	return s
}

func (r rawObject) boolKey(key string) bool {
	v, ok := r.get(key)
	if !ok {
		return false
	}
	var b bool
	_ = json.Unmarshal(v, &b)
	return b
}

func (r rawObject) floatKey(key string) float64 {
	v, ok := r.get(key)
	if !ok {
		return 0
	}
	var f float64
	_ = json.Unmarshal(v, &f)
	return f
}

func (r rawObject) urlMapKey(key string) map[string]string {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	var m map[string]string
	_ = json.Unmarshal(v, &m)
	return m
}

func snakeToCamel(s string) string {
	out := make([]byte, 0, len(s))
	upper := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}
