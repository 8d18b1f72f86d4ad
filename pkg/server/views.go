package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap"
	"github.com/yolcu/mindmap/pkg/mindmap/interact"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/observability"
	"github.com/yolcu/mindmap/pkg/roadmap"
	"github.com/yolcu/mindmap/pkg/session"
)

// maxEvents bounds one events batch.
const maxEvents = 512

type createViewRequest struct {
	Content   *roadmap.Content `json:"content,omitempty"`
	RoadmapID int64            `json:"roadmap_id,omitempty"`
	Width     float64          `json:"width,omitempty"`
	Height    float64          `json:"height,omitempty"`
	Selected  string           `json:"selected,omitempty"`
	Collapsed *bool            `json:"collapsed,omitempty"`
	Compact   bool             `json:"compact,omitempty"`
	Mode      string           `json:"mode,omitempty"`
}

type viewResponse struct {
	ID    string        `json:"id"`
	Frame mindmap.Frame `json:"frame"`
}

type eventsRequest struct {
	Events []interact.Event `json:"events"`
}

type eventsResponse struct {
	Frame          mindmap.Frame        `json:"frame"`
	Activations    []session.Activation `json:"activations"`
	PreventDefault bool                 `json:"prevent_default"`
}

type sizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type selectRequest struct {
	StageID string `json:"stage_id"`
}

type focusRequest struct {
	NodeID string `json:"node_id"`
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req createViewRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width < 0 || req.Height < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "size must not be negative"))
		return
	}

	var content roadmap.Content
	switch {
	case req.Content != nil:
		content = *req.Content
	case req.RoadmapID > 0:
		rm, err := s.roadmap(r, req.RoadmapID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		content = rm.Content
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "content or roadmap_id is required"))
		return
	}

	opts, err := s.viewOptions(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(content, opts, s.defaults.TTL)
	if req.Selected != "" {
		var selErr error
		sess.Do(func(v *mindmap.View) { selErr = v.Select(req.Selected) })
		if selErr != nil {
			s.writeError(w, r, selErr)
			return
		}
	}
	if err := s.views.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Debug("opened view", "id", sess.ID, "roadmap", req.RoadmapID, "stages", len(content.Stages))
	writeJSON(w, http.StatusCreated, viewResponse{ID: sess.ID, Frame: sess.Frame()})
}

func (s *Server) viewOptions(req createViewRequest) (mindmap.Options, error) {
	d := s.defaults
	lo := d.Layout
	if req.Compact {
		lo = layout.CompactOptions()
	}
	mode := d.Mode
	if req.Mode != "" {
		m, err := interact.ParseMode(req.Mode)
		if err != nil {
			return mindmap.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "mode")
		}
		mode = m
	}
	if req.Selected != "" {
		if err := errors.ValidateNodeID(req.Selected); err != nil {
			return mindmap.Options{}, err
		}
	}
	collapsed := d.Collapsed
	if req.Collapsed != nil {
		collapsed = *req.Collapsed
	}

	// A missing dimension takes the minimum canvas size.
	vp := d.Viewport
	vp.Width, vp.Height = req.Width, req.Height
	if vp.Width == 0 || vp.Height == 0 {
		cw, ch := viewport.CanvasSize(req.Width, req.Height, req.Compact)
		if vp.Width == 0 {
			vp.Width = cw
		}
		if vp.Height == 0 {
			vp.Height = ch
		}
	}
	return mindmap.Options{
		Layout:           &lo,
		Viewport:         vp,
		InitialSelection: d.InitialSelection,
		Collapsed:        collapsed,
		RoadmapID:        req.RoadmapID,
		Mode:             mode,
	}, nil
}

// view resolves the {viewID} path parameter.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.views.Get(r.Context(), chi.URLParam(r, "viewID"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{ID: sess.ID, Frame: sess.Frame()})
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.view(w, r)
	if !ok {
		return
	}
	if err := s.views.Delete(r.Context(), sess.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.view(w, r)
	if !ok {
		return
	}
	var req eventsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Events) > maxEvents {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "at most %d events per batch", maxEvents))
		return
	}

	ctx := r.Context()
	hooks := observability.Interaction()
	resp := eventsResponse{Activations: []session.Activation{}}

	acts := sess.Do(func(v *mindmap.View) {
		zoom := v.Frame().Zoom
		for _, e := range req.Events {
			res := v.Handle(e)
			resp.PreventDefault = resp.PreventDefault || res.PreventDefault
			if res.SelectionChanged {
				hooks.OnSelect(ctx, sess.ID, v.Selected())
			}
		}
		resp.Frame = v.Frame()
		if resp.Frame.Zoom != zoom {
			hooks.OnZoom(ctx, sess.ID, resp.Frame.Zoom)
		}
	})
	for _, a := range acts {
		hooks.OnActivate(ctx, sess.ID, a.NodeID, a.Path)
	}
	resp.Activations = append(resp.Activations, acts...)
	writeJSON(w, http.StatusOK, resp)
}

// control runs a frame-returning view operation.
func (s *Server) control(w http.ResponseWriter, r *http.Request, fn func(v *mindmap.View) error) {
	sess, ok := s.view(w, r)
	if !ok {
		return
	}
	var (
		f   mindmap.Frame
		err error
	)
	sess.Do(func(v *mindmap.View) {
		zoom := v.Frame().Zoom
		if err = fn(v); err != nil {
			return
		}
		f = v.Frame()
		if f.Zoom != zoom {
			observability.Interaction().OnZoom(r.Context(), sess.ID, f.Zoom)
		}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{ID: sess.ID, Frame: f})
}

func (s *Server) handleZoomIn(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, func(v *mindmap.View) error { v.ZoomIn(); return nil })
}

func (s *Server) handleZoomOut(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, func(v *mindmap.View) error { v.ZoomOut(); return nil })
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, func(v *mindmap.View) error { v.ResetView(); return nil })
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	padding := float64(mindmap.DefaultFitPadding)
	if p := r.URL.Query().Get("padding"); p != "" {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid padding %q", p))
			return
		}
		padding = v
	}
	s.control(w, r, func(v *mindmap.View) error { v.Fit(padding); return nil })
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width < 0 || req.Height < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "size must not be negative"))
		return
	}
	s.control(w, r, func(v *mindmap.View) error { v.Resize(req.Width, req.Height); return nil })
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.control(w, r, func(v *mindmap.View) error {
		if err := v.Select(req.StageID); err != nil {
			return err
		}
		observability.Interaction().OnSelect(r.Context(), chi.URLParam(r, "viewID"), req.StageID)
		return nil
	})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.control(w, r, func(v *mindmap.View) error {
		if !v.Focus(req.NodeID) {
			return errors.New(errors.ErrCodeNotFound, "node %q is not in the current scene", req.NodeID)
		}
		return nil
	})
}
