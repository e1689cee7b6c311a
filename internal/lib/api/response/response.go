package response

import "blog-api/internal/domain/models"

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK() Response {
	return Response{Success: true}
}

func Err(msg string) Response {
	return Response{Success: false, Message: msg}
}

type Login struct {
	LoginSuccess bool   `json:"loginSuccess"`
	UserID       string `json:"userId,omitempty"`
	Message      string `json:"message,omitempty"`
}

type Like struct {
	Success bool `json:"success"`
	Liked   bool `json:"liked"`
}

type Auth struct {
	ID       string `json:"_id"`
	IsAdmin  bool   `json:"isAdmin"`
	IsAuth   bool   `json:"isAuth"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Role     int    `json:"role"`
	Image    string `json:"image"`
}

func AuthOf(user models.User) Auth {
	return Auth{
		ID:       user.ID,
		IsAdmin:  user.IsAdmin(),
		IsAuth:   true,
		Email:    user.Email,
		Name:     user.Name,
		Lastname: user.Lastname,
		Role:     user.Role,
		Image:    user.Image,
	}
}

type Unauthorized struct {
	IsAuth  bool   `json:"isAuth"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
