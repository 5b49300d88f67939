package api

type registerInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type checkInInput struct {
	Task string `json:"task" form:"task"`
}

type exportInput struct {
	Format string `json:"format" form:"format"`
}
