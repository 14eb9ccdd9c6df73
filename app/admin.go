package main

import (
	"errors"
	"net/http"

	"github.com/inkpress/inkpress/internal/commentservice"
	"github.com/inkpress/inkpress/internal/common"
	"github.com/inkpress/inkpress/internal/userservice"
)

func (app *application) getAllCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := app.commentService.GetAllComments(r.Context())
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

func (app *application) approveCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.commentService.ApproveComment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment approved"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// moderationDeleteCommentHandler is the admin removal path. It is the only
// way to delete anonymous comments and does not consult comment ownership.
func (app *application) moderationDeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.commentService.ModerationDeleteComment(r.Context(), id)
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

func (app *application) listAdminAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := app.userService.ListAdminAccounts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"accounts": accounts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteAdminAccountHandler(w http.ResponseWriter, r *http.Request) {
	email := app.readStringParam(r, "email")

	err := app.userService.DeleteAdminAccount(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrStaticAccount):
			app.writeErrorResponse(w, r, http.StatusForbidden, "static accounts cannot be deleted")
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "account deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listWriterAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := app.userService.ListWriterAccounts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"accounts": accounts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createWriterAccountHandler(w http.ResponseWriter, r *http.Request) {
	var input registerRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	identity, err := app.userService.Register(r.Context(), input.Email, input.Password, input.Name, userservice.RoleWriter)
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

	err = app.writeJSON(w, http.StatusCreated, envelope{"identity": identity}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteWriterAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.userService.DeleteWriterAccount(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "account deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
