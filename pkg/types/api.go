package types

// PromptRequest is the payload for POST /prompt.
type PromptRequest struct {
	// Prompt text forwarded to the running worker.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// Optional model to start when no worker is running.
	// example: tinyllama-q4
	Model string `json:"model,omitempty" example:"tinyllama-q4"`
}

// SendRequest is the payload for POST /send.
type SendRequest struct {
	// Raw line written to the worker's standard input.
	// example: hello
	Text string `json:"text" example:"hello"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of discovered models, sorted by id.
	Models []Model `json:"models"`
}

// OKResponse is returned by command endpoints that have no other payload.
type OKResponse struct {
	// example: true
	OK bool `json:"ok" example:"true"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: a model process is already running
	Error string `json:"error" example:"a model process is already running"`
	// HTTP status code.
	// example: 409
	Code int `json:"code" example:"409"`
}

// WorkerStatus describes the running worker, if any.
type WorkerStatus struct {
	// Unique id of this worker lifetime.
	// example: 5f1d7c1e-8a4b-4c55-9b1e-3f8e2c9a1d00
	RunID string `json:"run_id" example:"5f1d7c1e-8a4b-4c55-9b1e-3f8e2c9a1d00"`
	// Model the worker was started for.
	// example: tinyllama-q4
	ModelID string `json:"model_id" example:"tinyllama-q4"`
	// Process ID of the worker.
	// example: 12345
	PID int `json:"pid" example:"12345"`
	// Launch strategy that produced the command line.
	// example: local-binary
	Strategy string `json:"strategy" example:"local-binary"`
	// Start time (unix seconds).
	// example: 1700000000
	StartedUnix int64 `json:"started_unix" example:"1700000000"`
	// Seconds since start.
	// example: 42
	UptimeSeconds int64 `json:"uptime_seconds" example:"42"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Whether a worker process is running.
	// example: true
	Running bool `json:"running" example:"true"`
	// Running worker details; omitted when idle.
	Worker *WorkerStatus `json:"worker,omitempty"`
	// Model marked as loaded, if any.
	// example: tinyllama-q4
	LoadedModel string `json:"loaded_model,omitempty" example:"tinyllama-q4"`
	// Number of models in the current catalog snapshot.
	// example: 3
	CatalogSize int `json:"catalog_size" example:"3"`
	// Models directory being scanned.
	// example: /home/user/models
	ModelsDir string `json:"models_dir" example:"/home/user/models"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total workers started since boot.
	// example: 4
	StartsTotal uint64 `json:"starts_total" example:"4"`
	// Notifications evicted from slow subscriber buffers.
	// example: 0
	DroppedNotifications uint64 `json:"dropped_notifications" example:"0"`
}

// LaunchPlan describes how a model would be launched, as printed by `modelhost resolve`.
type LaunchPlan struct {
	ModelID  string   `json:"model_id"`
	Strategy string   `json:"strategy,omitempty"`
	Path     string   `json:"path,omitempty"`
	Args     []string `json:"args,omitempty"`
	Dir      string   `json:"dir,omitempty"`
	Shell    bool     `json:"shell"`
	Error    string   `json:"error,omitempty"`
}
