package entity

// CachedRender is a finished render kept in the cache.
type CachedRender struct {
	CodeID     string   `json:"code_id,omitempty"`
	FilePath   string   `json:"file_path,omitempty"`
	Image      []byte   `json:"image,omitempty"`
	Format     string   `json:"format"`
	Width      int      `json:"width"`
	MatrixSize int      `json:"matrix_size"`
	Level      string   `json:"level"`
	Payload    string   `json:"payload"`
	Strategy   string   `json:"strategy"`
	Degraded   bool     `json:"degraded"`
	Warnings   []string `json:"warnings,omitempty"`
}
