package model

// ChunkMetadata describes a document chunk as recorded in the vector store.
// Page fields are optional: older ingestion runs did not record a page
// extent, and the page-boundary check must treat that as a finding rather
// than assume zeroes.
type ChunkMetadata struct {
	ChunkID   string `json:"chunk_id"`
	PageStart *int   `json:"page_start,omitempty"`
	PageEnd   *int   `json:"page_end,omitempty"`
	Path      string `json:"path,omitempty"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
}

// HasPageExtent reports whether the chunk carries a usable page range
func (m *ChunkMetadata) HasPageExtent() bool {
	return m != nil && m.PageStart != nil && m.PageEnd != nil
}
