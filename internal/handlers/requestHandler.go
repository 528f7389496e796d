package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/akolanti/ragassistant/internal/adapter"
	"github.com/akolanti/ragassistant/internal/adapter/utils"
	"github.com/akolanti/ragassistant/internal/api"
	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/job"
	"github.com/akolanti/ragassistant/internal/rag/ingest"
)

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ChatHandler godoc
// @Summary      Ask a question
// @Description  Queues a question against the indexed documents and returns a job ID to track status. Omit chatID to start a new chat.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Question and optional Chat ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or chat ID"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request) {
		return
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the chat request body", "error", err)
		}
	}(request.Body)

	var requestData api.ChatRequest
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	newJob, err := handlerInstance.service.SubmitQuery(request.Context(), requestData.ChatID, requestData.Message)
	switch {
	case errors.Is(err, job.ErrEmptyQuestion), errors.Is(err, job.ErrUnknownChat):
		WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, err.Error())
		return
	case err != nil:
		WriteErrorResponse(w, http.StatusInternalServerError, requestData.ChatID, "Could not queue the question")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a query, index or reset job using its ID.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := GetJobStatus(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// GetChatHistoryHandler godoc
// @Summary      Get chat history
// @Description  Returns the most recent answered turns of a chat, oldest first.
// @Tags         Messaging
// @Produce      json
// @Param        chatId  path      string  true  "Chat ID"
// @Success      200     {object}  api.ChatHistoryResponse
// @Failure      404     {object}  api.JobResponse  "Chat not found"
// @Router       /chat/{chatId}/history [get]
func GetChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	chatId := utils.GetChiURLParam(r, "chatId")
	history, err := handlerInstance.service.ChatHistory(r.Context(), chatId)
	if errors.Is(err, job.ErrUnknownChat) {
		WriteErrorResponse(w, http.StatusNotFound, chatId, "Chat not found")
		return
	} else if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, chatId, "Could not read chat history")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToChatHistoryResponse(chatId, history))
}

// PostIngestHandler godoc
// @Summary      Upload documents and index them
// @Description  Saves one or more files (pdf, docx, txt, png, jpg, jpeg) into the data directory and queues an index job over it.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file    true  "File to upload, repeat the field for several files"
// @Success      202  {object}  api.InitJobResponse "Index job queued"
// @Failure      400  {object}  api.JobResponse "Missing file, unsupported type or upload too large"
// @Failure      500  {object}  api.JobResponse "Storage or write error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}
	files := r.MultipartForm.File["document"]
	if len(files) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document is required")
		return
	}
	for _, fh := range files {
		if !ingest.IsSupported(fh.Filename) {
			WriteErrorResponse(w, http.StatusBadRequest, fh.Filename, "Unsupported file type")
			return
		}
	}

	if err := os.MkdirAll(handlerInstance.dataDir, 0o750); err != nil {
		logRH.Error("Couldn't create data directory", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		path, errString := saveUpload(fh, handlerInstance.dataDir)
		if errString != "" {
			WriteErrorResponse(w, http.StatusInternalServerError, fh.Filename, errString)
			return
		}
		saved = append(saved, path)
	}

	newJob, err := handlerInstance.service.SubmitIndex(r.Context(), handlerInstance.dataDir, saved)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not queue the index job")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob))
}

// PostIndexHandler godoc
// @Summary      Index the data directory
// @Description  Queues an index run over every supported file already in the data directory.
// @Tags         Ingestion
// @Produce      json
// @Success      202  {object}  api.InitJobResponse "Index job queued"
// @Failure      500  {object}  api.JobResponse
// @Router       /index [post]
func PostIndexHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	newJob, err := handlerInstance.service.SubmitIndex(r.Context(), handlerInstance.dataDir, nil)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not queue the index job")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob))
}

// PostResetHandler godoc
// @Summary      Clear the knowledge base
// @Description  Queues a job that removes every stored chunk. Files in the data directory are kept.
// @Tags         Ingestion
// @Produce      json
// @Success      202  {object}  api.InitJobResponse "Reset job queued"
// @Failure      500  {object}  api.JobResponse
// @Router       /reset [post]
func PostResetHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	newJob, err := handlerInstance.service.SubmitReset(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not queue the reset job")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob))
}
