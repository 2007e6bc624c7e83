package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/peterkuimelis/orderflag/internal/store"
)

// noteKey addresses one note: a day and, for turn memos, a turn.
type noteKey struct {
	day, turn int
}

// noteHandler reads, writes and deletes one category of note.
type noteHandler struct {
	get func(ctx context.Context, k noteKey) (any, error)
	put func(ctx context.Context, k noteKey, body *json.Decoder) error
	del func(ctx context.Context, k noteKey) error
}

type memoBody struct {
	Memo string `json:"memo"`
}

type flowerBody struct {
	Marked bool `json:"marked"`
}

func (s *Server) notesRoute(pattern string, h noteHandler) {
	s.mux.HandleFunc("GET "+pattern, s.withNote(func(w http.ResponseWriter, r *http.Request, k noteKey) {
		v, err := h.get(r.Context(), k)
		if err != nil {
			s.noteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}))
	s.mux.HandleFunc("PUT "+pattern, s.withNote(func(w http.ResponseWriter, r *http.Request, k noteKey) {
		if err := h.put(r.Context(), k, json.NewDecoder(r.Body)); err != nil {
			s.noteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	s.mux.HandleFunc("DELETE "+pattern, s.withNote(func(w http.ResponseWriter, r *http.Request, k noteKey) {
		if err := h.del(r.Context(), k); err != nil {
			s.noteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}

func (s *Server) withNote(fn func(http.ResponseWriter, *http.Request, noteKey)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.notes == nil {
			writeError(w, http.StatusServiceUnavailable, "notes store disabled")
			return
		}
		var k noteKey
		var err error
		if k.day, err = pathInt(r, "day"); err != nil {
			writeError(w, http.StatusBadRequest, "bad day")
			return
		}
		if r.PathValue("turn") != "" {
			if k.turn, err = pathInt(r, "turn"); err != nil {
				writeError(w, http.StatusBadRequest, "bad turn")
				return
			}
		}
		fn(w, r, k)
	}
}

var errBadBody = errors.New("bad request body")

func (s *Server) noteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrBadDay), errors.Is(err, errBadBody):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("notes store", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "notes store error")
	}
}

func decodeBody(dec *json.Decoder, v any) error {
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadBody, err)
	}
	return nil
}

func (s *Server) dayMemo() noteHandler {
	return noteHandler{
		get: func(ctx context.Context, k noteKey) (any, error) {
			memo, err := s.notes.LoadStrategyMemo(ctx, k.day)
			return memoBody{Memo: memo}, err
		},
		put: func(ctx context.Context, k noteKey, dec *json.Decoder) error {
			var b memoBody
			if err := decodeBody(dec, &b); err != nil {
				return err
			}
			return s.notes.SaveStrategyMemo(ctx, k.day, b.Memo)
		},
		del: func(ctx context.Context, k noteKey) error {
			return s.notes.DeleteStrategyMemo(ctx, k.day)
		},
	}
}

func (s *Server) turnMemo() noteHandler {
	return noteHandler{
		get: func(ctx context.Context, k noteKey) (any, error) {
			memo, err := s.notes.LoadTurnMemo(ctx, k.day, k.turn)
			return memoBody{Memo: memo}, err
		},
		put: func(ctx context.Context, k noteKey, dec *json.Decoder) error {
			var b memoBody
			if err := decodeBody(dec, &b); err != nil {
				return err
			}
			return s.notes.SaveTurnMemo(ctx, k.day, k.turn, b.Memo)
		},
		del: func(ctx context.Context, k noteKey) error {
			return s.notes.DeleteTurnMemo(ctx, k.day, k.turn)
		},
	}
}

func (s *Server) dayFlags() noteHandler {
	return noteHandler{
		get: func(ctx context.Context, k noteKey) (any, error) {
			return s.notes.LoadDayFlags(ctx, k.day)
		},
		put: func(ctx context.Context, k noteKey, dec *json.Decoder) error {
			var f store.DayFlags
			if err := decodeBody(dec, &f); err != nil {
				return err
			}
			return s.notes.SaveDayFlags(ctx, k.day, f)
		},
		del: func(ctx context.Context, k noteKey) error {
			return s.notes.DeleteDayFlags(ctx, k.day)
		},
	}
}

func (s *Server) whiteFlower() noteHandler {
	return noteHandler{
		get: func(ctx context.Context, k noteKey) (any, error) {
			marked, err := s.notes.LoadWhiteFlower(ctx, k.day)
			return flowerBody{Marked: marked}, err
		},
		put: func(ctx context.Context, k noteKey, dec *json.Decoder) error {
			var b flowerBody
			if err := decodeBody(dec, &b); err != nil {
				return err
			}
			return s.notes.SaveWhiteFlower(ctx, k.day, b.Marked)
		},
		del: func(ctx context.Context, k noteKey) error {
			return s.notes.SaveWhiteFlower(ctx, k.day, false)
		},
	}
}
