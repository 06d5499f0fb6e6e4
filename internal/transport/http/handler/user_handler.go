package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/service"
	"staffdesk/internal/storage"
	"staffdesk/internal/transport/http/ez"
)

type UserHandler struct {
	users *service.UserService
	store *storage.LocalStore
}

func NewUserHandler(users *service.UserService, store *storage.LocalStore) *UserHandler {
	return &UserHandler{users: users, store: store}
}

func paramID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ez.BadRequest("id must be a positive number")
	}
	return id, nil
}

// Mount registers the listing and profile endpoints on the authenticated
// group and the destructive toggles on the admin group.
func (h *UserHandler) Mount(authed, admin *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction[service.ListingParams, service.ListResult](e, ez.Action[service.ListingParams, service.ListResult]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.ListingParams) (service.ListResult, error) {
			res, err := h.users.List(*in)
			if err != nil {
				return service.ListResult{}, mapErr(err)
			}
			return res, nil
		},
	})

	ez.RegisterAction[struct{}, service.UserView](e, ez.Action[struct{}, service.UserView]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (service.UserView, error) {
			id, err := paramID(c)
			if err != nil {
				return service.UserView{}, err
			}
			v, err := h.users.Get(c.Request.Context(), id)
			if err != nil {
				return service.UserView{}, mapErr(err)
			}
			return v, nil
		},
	})

	// Profile edit arrives as multipart form-data so the image can ride
	// along with the text fields.
	ez.RegisterAction[struct{}, service.UserView](e, ez.Action[struct{}, service.UserView]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (service.UserView, error) {
			id, err := paramID(c)
			if err != nil {
				return service.UserView{}, err
			}
			in := service.UpdateProfileInput{
				Username: c.PostForm("username"),
				Email:    c.PostForm("email"),
			}
			if fh, err := c.FormFile("image"); err == nil && fh != nil {
				path, err := h.store.SaveImage(fh)
				if err != nil {
					return service.UserView{}, mapErr(err)
				}
				in.ImagePath = path
			}
			v, err := h.users.UpdateProfile(c.Request.Context(), id, in)
			if err != nil {
				return service.UserView{}, mapErr(err)
			}
			return v, nil
		},
	})

	a := ez.New(admin)

	ez.RegisterAction[struct{}, service.UserView](a, ez.Action[struct{}, service.UserView]{
		Method: http.MethodPut,
		Path:   "/users/:id/toggle-active",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (service.UserView, error) {
			id, err := paramID(c)
			if err != nil {
				return service.UserView{}, err
			}
			v, err := h.users.ToggleActive(c.Request.Context(), id)
			if err != nil {
				return service.UserView{}, mapErr(err)
			}
			return v, nil
		},
	})

	ez.RegisterAction[struct{}, gin.H](a, ez.Action[struct{}, gin.H]{
		Method: http.MethodPatch,
		Path:   "/users/:id/soft-delete",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			if err := h.users.SoftDelete(c.Request.Context(), id); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
