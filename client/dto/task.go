package dto

type JobRequest struct {
	URL           string `json:"url" validate:"required,http_url"`
	FrameInterval int    `json:"frame_interval" validate:"gte=1"`
	MaxFrames     *int   `json:"max_frames" validate:"omitempty,gte=1"`
	Quality       string `json:"quality" validate:"required,oneof=best high medium low worst"`
}

type SubmitResponse struct {
	TaskID string `json:"task_id"`
}

type StatusSnapshot struct {
	Status   string         `json:"status"`
	Progress float64        `json:"progress"`
	Message  string         `json:"message"`
	Results  *ResultPayload `json:"results,omitempty"`
}

type ResultPayload struct {
	OverallColor    [3]int `json:"overall_color"`
	OverallColorHex string `json:"overall_color_hex"`
	TotalFrames     int    `json:"total_frames"`
	TimelineImage   string `json:"timeline_image"`
	TimelineVideo   string `json:"timeline_video,omitempty"`
	ResultsFile     string `json:"results_file"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
