package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/pipeline"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

type sceneRequest struct {
	Content   roadmap.Content `json:"content"`
	Selected  string          `json:"selected,omitempty"`
	Collapsed bool            `json:"collapsed,omitempty"`
	Compact   bool            `json:"compact,omitempty"`
}

type renderRequest struct {
	sceneRequest
	Transform   *viewport.Transform `json:"transform,omitempty"`
	Width       float64             `json:"width,omitempty"`
	Height      float64             `json:"height,omitempty"`
	Fit         bool                `json:"fit,omitempty"`
	Interactive bool                `json:"interactive,omitempty"`
	FreeDOT     bool                `json:"free_dot,omitempty"`
}

func (req sceneRequest) options(defaults layout.Options) pipeline.Options {
	opts := pipeline.Options{
		Selected:  req.Selected,
		Collapsed: req.Collapsed,
		Compact:   req.Compact,
	}
	if !req.Compact {
		lo := defaults
		opts.Layout = &lo
	}
	return opts
}

func (req renderRequest) options(defaults layout.Options, format string) pipeline.Options {
	opts := req.sceneRequest.options(defaults)
	opts.Formats = []string{format}
	opts.Transform = req.Transform
	opts.Width = req.Width
	opts.Height = req.Height
	opts.Fit = req.Fit
	opts.Interactive = req.Interactive
	opts.FreeDOT = req.FreeDOT
	return opts
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveScene(w, r, req.Content, req.options(s.defaults.Layout))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveRender(w, r, req.Content, req.options(s.defaults.Layout, format), format)
}

func (s *Server) handleRoadmapScene(w http.ResponseWriter, r *http.Request) {
	rm, err := s.loadRoadmap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := sceneQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveScene(w, r, rm.Content, req.options(s.defaults.Layout))
}

func (s *Server) handleRoadmapRender(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rm, err := s.loadRoadmap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sq, err := sceneQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req := renderRequest{sceneRequest: sq}
	q := r.URL.Query()
	if req.Width, err = floatParam(q.Get("width")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Height, err = floatParam(q.Get("height")); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Fit = q.Get("fit") == "true"
	req.Interactive = q.Get("interactive") == "true"
	s.serveRender(w, r, rm.Content, req.options(s.defaults.Layout, format), format)
}

func (s *Server) serveScene(w http.ResponseWriter, r *http.Request, c roadmap.Content, opts pipeline.Options) {
	scene, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), c, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, scene)
}

func (s *Server) serveRender(w http.ResponseWriter, r *http.Request, c roadmap.Content, opts pipeline.Options, format string) {
	res, err := s.runner.Execute(r.Context(), c, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, pipeline.ContentTypes[format], res.Artifacts[format], res.CacheInfo.RenderHit)
}

func (s *Server) loadRoadmap(r *http.Request) (*roadmap.Roadmap, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "roadmapID"), 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "roadmap id must be a positive integer")
	}
	return s.roadmap(r, id)
}

func (s *Server) roadmap(r *http.Request, id int64) (*roadmap.Roadmap, error) {
	if s.source == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no roadmap source configured")
	}
	return s.runner.Load(r.Context(), s.source, s.sourceName, id)
}

func formatParam(r *http.Request) (string, error) {
	format := r.URL.Query().Get("format")
	if format == "" {
		return pipeline.FormatSVG, nil
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func sceneQuery(r *http.Request) (sceneRequest, error) {
	q := r.URL.Query()
	req := sceneRequest{
		Selected:  q.Get("selected"),
		Collapsed: q.Get("collapsed") == "true",
		Compact:   q.Get("compact") == "true",
	}
	if req.Selected != "" {
		if err := pipeline.ValidateSelection(req.Selected); err != nil {
			return req, err
		}
	}
	return req, nil
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid size %q", v)
	}
	return f, nil
}
