package types

// Model kinds as reported by the catalog scan.
const (
	KindFile    = "file"
	KindPackage = "package"
)

// Model represents a discoverable model artifact on disk.
type Model struct {
	// Stable identifier derived from the directory entry name.
	// example: tinyllama-q4
	ID string `json:"id" example:"tinyllama-q4"`
	// Display name (file name with extension, or package directory name).
	// example: tinyllama-q4.gguf
	Name string `json:"name" example:"tinyllama-q4.gguf"`
	// Absolute path to the model file or package directory.
	// example: /home/user/models/tinyllama-q4.gguf
	Path string `json:"path" example:"/home/user/models/tinyllama-q4.gguf"`
	// Whether the model is marked as the loaded model.
	// example: false
	Loaded bool `json:"loaded" example:"false"`
	// Either "file" or "package".
	// example: file
	Kind string `json:"kind" example:"file"`
	// File size in bytes; zero for packages.
	// example: 637000000
	SizeBytes int64 `json:"size_bytes,omitempty" example:"637000000"`
}
