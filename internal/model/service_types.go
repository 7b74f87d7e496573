package model

// StudentFilter 学生列表查询条件, FacultyID 为 0 表示不限院系
type StudentFilter struct {
	FacultyID uint
	// Running 同时匹配空状态; 空字符串或 All 表示不过滤
	Status string
}

const StudentStatusAll = "All"

// CourseProgress 单门课程的完成百分比
type CourseProgress struct {
	CourseID   uint   `json:"courseId"`
	CourseName string `json:"courseName"`
	Checked    int    `json:"checked"`
	Total      int    `json:"total"`
	Percent    int    `json:"percent"`
}

// StudentSummary 管理端学生列表项
type StudentSummary struct {
	Student
	Status         string           `json:"status"`
	CourseProgress []CourseProgress `json:"courseProgress"`
}

// ReportDetail 报告详情
type ReportDetail struct {
	Student *Student `json:"student"`
	Report  *Report  `json:"report"`
	Percent int      `json:"percent"`
}

// StudentDashboard 学生首页
type StudentDashboard struct {
	Student *Student         `json:"student"`
	Courses []CourseProgress `json:"courses"`
}

// DashboardStats 管理端统计
type DashboardStats struct {
	TotalStudents int64    `json:"totalStudents"`
	TotalCourses  int64    `json:"totalCourses"`
	TotalReports  int64    `json:"totalReports"`
	TotalAdmins   int64    `json:"totalAdmins"`
	ChartLabels   []string `json:"chartLabels"`
	ChartData     []int64  `json:"chartData"`
}

// ReconcileResult 一次全量一致性修复的统计
type ReconcileResult struct {
	Courses        int `json:"courses"`
	ReportsUpdated int `json:"reportsUpdated"`
	ReportsCreated int `json:"reportsCreated"`
	Failures       int `json:"failures"`
}
