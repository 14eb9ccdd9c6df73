package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/inkpress/inkpress/internal/aiservice"
	"github.com/inkpress/inkpress/internal/blogservice"
	"github.com/inkpress/inkpress/internal/commentservice"
	"github.com/inkpress/inkpress/internal/common"
	"github.com/inkpress/inkpress/internal/mediaservice"
	"github.com/inkpress/inkpress/internal/userservice"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginAdminHandler(w http.ResponseWriter, r *http.Request) {
	app.login(w, r, app.userService.LoginAdmin)
}

func (app *application) loginWriterHandler(w http.ResponseWriter, r *http.Request) {
	app.login(w, r, app.userService.LoginWriter)
}

func (app *application) login(w http.ResponseWriter, r *http.Request, authFn func(ctx context.Context, email, password string) (*userservice.Identity, error)) {
	var input loginRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	identity, err := authFn(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	token, err := app.codec.IssueToken(*identity)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": token, "identity": identity}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (app *application) registerAdminHandler(w http.ResponseWriter, r *http.Request) {
	app.register(w, r, userservice.RoleAdmin)
}

func (app *application) registerWriterHandler(w http.ResponseWriter, r *http.Request) {
	app.register(w, r, userservice.RoleWriter)
}

func (app *application) register(w http.ResponseWriter, r *http.Request, role userservice.Role) {
	var input registerRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	identity, err := app.userService.Register(r.Context(), input.Email, input.Password, input.Name, role)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateAccount):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "an account with this email address already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	token, err := app.codec.IssueToken(*identity)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"token": token, "identity": identity}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type federatedLoginRequest struct {
	ProviderToken string `json:"provider_token"`
}

func (app *application) loginFederatedHandler(w http.ResponseWriter, r *http.Request) {
	var input federatedLoginRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	identity, err := app.userService.LoginFederated(r.Context(), input.ProviderToken)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrRegistrationClosed):
			app.registrationClosedErrorResponse(w, r)
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	token, err := app.codec.IssueToken(*identity)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": token, "identity": identity}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// verifyTokenHandler confirms a presented token still verifies and echoes
// the identity embedded in it. Clients use it to settle an optimistic
// session after a signature-unchecked decode.
func (app *application) verifyTokenHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.getIdentityContext(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"identity": identity}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreateBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	identity := app.getIdentityContext(r)
	input.AuthorEmail = identity.Email
	input.AuthorName = identity.Name

	blog, err := app.blogService.CreateBlog(r.Context(), &input)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// unpublished drafts are visible to their author and to admins only
	if !blog.IsPublished {
		identity := app.getIdentityContext(r)
		if !identity.CanRead(blog.AuthorEmail) {
			app.notFoundErrorResponse(w, r)
			return
		}
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getPublishedBlogsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blogs, err := app.blogService.GetPublishedBlogs(r.Context(), limit, offset)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// listBlogsForIdentityHandler returns the caller's own blogs. Admins get the
// full set, drafts included. Widened reading never widens mutation.
func (app *application) listBlogsForIdentityHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.getIdentityContext(r)

	var (
		blogs []blogservice.Blog
		err   error
	)

	if identity.IsAdmin() {
		blogs, err = app.blogService.GetAllBlogs(r.Context())
	} else {
		blogs, err = app.blogService.GetBlogsByAuthor(r.Context(), identity.Email)
	}
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getDashboardHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.getIdentityContext(r)

	dashboard, err := app.blogService.GetDashboard(r.Context(), identity.Email)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"dashboard": dashboard}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updateBlogRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input updateBlogRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// re-fetch and check ownership against the stored author, never the
	// request payload
	dbBlog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	identity := app.getIdentityContext(r)
	if !identity.CanMutate(dbBlog.AuthorEmail) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	dbBlog.Title = input.Title
	dbBlog.Subtitle = input.Subtitle
	dbBlog.Description = input.Description
	dbBlog.Category = input.Category
	dbBlog.Image = input.Image

	err = app.blogService.UpdateBlog(r.Context(), dbBlog)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": dbBlog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	dbBlog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	identity := app.getIdentityContext(r)
	if !identity.CanMutate(dbBlog.AuthorEmail) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	err = app.blogService.DeleteBlog(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) togglePublishHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	dbBlog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	identity := app.getIdentityContext(r)
	if !identity.CanMutate(dbBlog.AuthorEmail) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	blog, err := app.blogService.TogglePublish(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type addCommentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input addCommentRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	req := &commentservice.AddCommentRequest{
		BlogID:  blogID,
		Name:    input.Name,
		Content: input.Content,
	}

	// anonymous visitors may comment; authenticated callers get stamped
	identity := app.getIdentityContext(r)
	if !identity.IsAnonymous() {
		req.AuthorEmail = &identity.Email
		if input.Name == "" {
			req.Name = identity.Name
		}
	}

	comment, err := app.commentService.AddComment(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrBlogNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getApprovedCommentsHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comments, err := app.commentService.GetApprovedComments(r.Context(), blogID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// deleteOwnCommentHandler lets a comment's author remove it. Anonymous
// comments have no deletable owner; those go through moderation instead.
func (app *application) deleteOwnCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.GetCommentByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	identity := app.getIdentityContext(r)
	if !identity.CanDeleteOwnComment(comment.AuthorEmail) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	err = app.commentService.DeleteOwnComment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type generateContentRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Subtitle string `json:"subtitle"`
}

func (app *application) generateContentHandler(w http.ResponseWriter, r *http.Request) {
	var input generateContentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	content, err := app.aiService.Generate(r.Context(), input.Title, input.Category, input.Subtitle)
	if err != nil {
		switch {
		case errors.Is(err, aiservice.ErrGenerationFailed):
			app.writeErrorResponse(w, r, http.StatusBadGateway, "content generation is unavailable right now")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"content": content}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("an image file is required"))
		return
	}
	defer file.Close()

	url, err := app.mediaService.Upload(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, mediaservice.ErrUploadFailed):
			app.writeErrorResponse(w, r, http.StatusBadGateway, "image upload is unavailable right now")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"url": url}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
