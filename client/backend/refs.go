package backend

// ProcessPath is the job creation endpoint.
const ProcessPath = "/api/process"

// Task ids and file names are opaque path segments: they are joined as the
// server returned them.

func StatusRef(taskID string) string {
	return "/api/status/" + taskID
}

func ImageRef(taskID, filename string) string {
	return "/api/image/" + taskID + "/" + filename
}

func DownloadRef(taskID, filename string) string {
	return "/api/download/" + taskID + "/" + filename
}
