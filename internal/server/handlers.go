package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

type splitRequest struct {
	Tile       mosaic.TileID `json:"tile"`
	Direction  string        `json:"direction"`
	NewTile    mosaic.TileID `json:"new_tile"`
	Percentage *float64      `json:"percentage"`
}

type closeRequest struct {
	Tile mosaic.TileID `json:"tile"`
}

type resizeRequest struct {
	Node       string   `json:"node"`
	Percentage *float64 `json:"percentage"`
}

type moveRequest struct {
	Dragged mosaic.TileID   `json:"dragged"`
	Target  mosaic.TileID   `json:"target"`
	Zone    mosaic.DropZone `json:"zone"`
}

type lockRequest struct {
	Node   string `json:"node"`
	Locked bool   `json:"locked"`
}

// mutationResponse is returned by every successful mutation.
type mutationResponse struct {
	Tiles      []mosaic.TileID `json:"tiles"`
	NewTile    mosaic.TileID   `json:"new_tile,omitempty"`
	Node       mosaic.NodeID   `json:"node,omitempty"`
	Percentage *float64        `json:"percentage,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code        mosaicerrors.Code `json:"code"`
	Message     string            `json:"message"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := s.ws.Snapshot()
	if err != nil {
		s.writeError(w, r, mosaicerrors.Wrap(mosaicerrors.ErrCodeInternal, err, "encode snapshot"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if err := s.ws.Restore(r.Context(), data); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMutation(w, mutationResponse{})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.ws.Tree()
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleReplaceTree(w http.ResponseWriter, r *http.Request) {
	var tree *mosaic.Tree
	if !s.decode(w, r, &tree) {
		return
	}
	if err := s.ws.Replace(r.Context(), tree); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMutation(w, mutationResponse{})
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.Tiles())
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if !s.decode(w, r, &req) {
		return
	}
	dir := mosaic.Horizontal
	if req.Direction != "" {
		parsed, err := mosaic.ParseDirection(req.Direction)
		if err != nil {
			s.writeError(w, r, mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "direction"))
			return
		}
		dir = parsed
	}
	pct := mosaic.DefaultSplitPercentage
	if req.Percentage != nil {
		pct = *req.Percentage
	}

	id, err := s.ws.Split(r.Context(), req.Tile, dir, req.NewTile, pct)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMutation(w, mutationResponse{NewTile: id})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.ws.Close(r.Context(), req.Tile); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMutation(w, mutationResponse{})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Percentage == nil {
		s.writeError(w, r, mosaicerrors.New(mosaicerrors.ErrCodeInvalidInput, "percentage is required"))
		return
	}
	applied, err := s.ws.Resize(r.Context(), req.Node, *req.Percentage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMutation(w, mutationResponse{Percentage: &applied})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.ws.Move(r.Context(), req.Dragged, req.Target, req.Zone); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMutation(w, mutationResponse{})
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, err := s.ws.SetLocked(r.Context(), req.Node, req.Locked)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMutation(w, mutationResponse{Node: id})
}

// =============================================================================
// Encoding
// =============================================================================

// decode reads a JSON body into v, writing a 400 response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) writeMutation(w http.ResponseWriter, resp mutationResponse) {
	resp.Tiles = s.ws.Tiles()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mosaicerrors.HTTPStatus(err)
	code := mosaicerrors.GetCode(err)
	if code == "" {
		code = mosaicerrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:        code,
		Message:     mosaicerrors.UserMessage(err),
		Suggestions: mosaicerrors.Suggestions(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
