package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"task_tracker/internal/http/flash"
	"task_tracker/internal/logger"
	"task_tracker/internal/repository"

	"github.com/gin-gonic/gin"
)

// Index shows all tasks. A storage failure renders the empty list with an
// error message instead of failing the request.
func (h *Handler) Index(c *gin.Context) {
	msg, hasMsg := flash.Pop(c)

	tasks, err := h.Tasks.List(c.Request.Context())
	if err != nil {
		logger.Error("failed to load tasks", "error", err)
		msg = flash.Message{Category: "error", Text: "Failed to load tasks. Please try again."}
		hasMsg = true
		tasks = nil
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"tasks":    tasks,
		"flash":    msg,
		"hasFlash": hasMsg,
	})
}

// AddTask creates a task from the form field "task" and redirects to the
// list. Validation happens here as well as in the repository.
func (h *Handler) AddTask(c *gin.Context) {
	description := strings.TrimSpace(c.PostForm("task"))
	if description == "" {
		flash.Error(c, "Task cannot be empty!")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	_, err := h.Tasks.Create(c.Request.Context(), description)
	switch {
	case err == nil:
		flash.Success(c, "Task added successfully!")
	case errors.Is(err, repository.ErrEmptyDescription):
		flash.Error(c, "Task cannot be empty!")
	default:
		flash.Error(c, "Failed to add task. Please try again.")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// EditTaskForm renders the edit form for one task.
func (h *Handler) EditTaskForm(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		flash.Error(c, "Task not found!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	msg, hasMsg := flash.Pop(c)

	task, err := h.Tasks.Get(c.Request.Context(), id)
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "edit.html", gin.H{
			"task":     task,
			"flash":    msg,
			"hasFlash": hasMsg,
		})
	case errors.Is(err, repository.ErrNotFound):
		flash.Error(c, "Task not found!")
		c.Redirect(http.StatusFound, "/")
	default:
		flash.Error(c, "Failed to edit task. Please try again.")
		c.Redirect(http.StatusFound, "/")
	}
}

// UpdateTask applies the edited description. A validation failure sends the
// user back to the form; everything else redirects to the list.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		flash.Error(c, "Task not found!")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	description := strings.TrimSpace(c.PostForm("task"))
	if description == "" {
		flash.Error(c, "Task cannot be empty!")
		c.Redirect(http.StatusSeeOther, "/edit/"+strconv.FormatInt(id, 10))
		return
	}

	err := h.Tasks.Update(c.Request.Context(), id, description)
	switch {
	case err == nil:
		flash.Success(c, "Task updated successfully!")
	case errors.Is(err, repository.ErrNotFound):
		flash.Error(c, "Task not found!")
	case errors.Is(err, repository.ErrEmptyDescription):
		flash.Error(c, "Task cannot be empty!")
	default:
		flash.Error(c, "Failed to update task. Please try again.")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// DeleteTask removes a task by id from the path.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		flash.Error(c, "Task not found!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	err := h.Tasks.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		flash.Success(c, "Task deleted successfully!")
	case errors.Is(err, repository.ErrNotFound):
		flash.Error(c, "Task not found!")
	default:
		flash.Error(c, "Failed to delete task. Please try again.")
	}
	c.Redirect(http.StatusFound, "/")
}

// CompleteTask marks a task completed. Completing twice is a no-op.
func (h *Handler) CompleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		flash.Error(c, "Task not found!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	err := h.Tasks.SetCompleted(c.Request.Context(), id, true)
	switch {
	case err == nil:
		flash.Success(c, "Task marked as completed!")
	case errors.Is(err, repository.ErrNotFound):
		flash.Error(c, "Task not found!")
	default:
		flash.Error(c, "Failed to complete task. Please try again.")
	}
	c.Redirect(http.StatusFound, "/")
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
