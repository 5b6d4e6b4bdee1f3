package stats

// WorkerRef identifica um worker em destaque no resumo.
type WorkerRef struct {
	ID            int64  `json:"id"`
	Fullname      string `json:"fullname"`
	Department    string `json:"department"`
	TotalLikes    int    `json:"total_likes"`
	TotalDislikes int    `json:"total_dislikes"`
}

// DepartmentCount agrega workers por departamento.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// Summary resume o desempenho dos workers de uma organização.
type Summary struct {
	TotalWorkers        int64             `json:"total_workers"`
	ActiveWorkers       int64             `json:"active_workers"`
	InactiveWorkers     int64             `json:"inactive_workers"`
	TotalLikes          int64             `json:"total_likes"`
	TotalDislikes       int64             `json:"total_dislikes"`
	TotalFeedback       int64             `json:"total_feedback"`
	EngagementRate      float64           `json:"engagement_rate"`
	TopLiked            *WorkerRef        `json:"top_liked"`
	MostDisliked        *WorkerRef        `json:"most_disliked"`
	FeedbackThisMonth   int64             `json:"feedback_this_month"`
	NewWorkersThisMonth int64             `json:"new_workers_this_month"`
	ByDepartment        []DepartmentCount `json:"by_department"`
}
