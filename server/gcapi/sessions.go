package gcapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/gparse"
	"github.com/dekarrin/gcodec/internal/jsonproj"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/packet"
	"github.com/dekarrin/gcodec/internal/session"
	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/dekarrin/gcodec/server/gcresult"
	"github.com/go-chi/chi/v5"
)

// CreateSessionRequest is the body of POST /sessions. Program may be empty,
// starting an empty editing session.
type CreateSessionRequest struct {
	Filename string `json:"filename"`
	Program  string `json:"program"`
}

// CreateSessionResponse is the body returned from a successful session
// creation.
type CreateSessionResponse struct {
	ID string `json:"id"`
}

// HTTPCreateSession returns a handler for POST /sessions.
func (api API) HTTPCreateSession() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) gcresult.Result {
	var body CreateSessionRequest
	if err := parseJSON(req, &body); err != nil {
		return gcresult.BadRequest(err.Error(), err.Error())
	}

	sess := session.New(body.Program, message.Options{Filename: body.Filename})

	rec, err := api.Sessions.Create(req.Context(), gcdao.Session{
		Snapshot: sess.MarshalSnapshot(),
	})
	if err != nil {
		return gcresult.InternalServerError("create session: %s", err.Error())
	}

	return gcresult.Created(CreateSessionResponse{ID: rec.ID.String()}, "session %s created", rec.ID)
}

// EditLineRequest is the body of POST /sessions/{id}/lines/{n}.
type EditLineRequest struct {
	Text string `json:"text"`
}

// HTTPEditLine returns a handler for POST /sessions/{id}/lines/{n}.
func (api API) HTTPEditLine() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epEditLine)
}

func (api API) epEditLine(req *http.Request) gcresult.Result {
	id := requireSessionID(req)

	lineStr := chi.URLParam(req, "n")
	lineNo, err := strconv.Atoi(lineStr)
	if err != nil || lineNo < 1 {
		return gcresult.BadRequest("line number must be a positive integer", "line param %q invalid", lineStr)
	}

	var body EditLineRequest
	if err := parseJSON(req, &body); err != nil {
		return gcresult.BadRequest(err.Error(), err.Error())
	}

	rec, err := api.Sessions.GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, gcdao.ErrNotFound) {
			return gcresult.NotFound("session %s not found", id)
		}
		return gcresult.InternalServerError("load session: %s", err.Error())
	}

	sess, err := session.UnmarshalSnapshot(rec.Snapshot)
	if err != nil {
		return gcresult.InternalServerError("decode session %s: %s", id, err.Error())
	}

	editRes := sess.ApplyLineEdit(lineNo, body.Text)

	rec.Snapshot = sess.MarshalSnapshot()
	if _, err := api.Sessions.Update(req.Context(), id, rec); err != nil {
		return gcresult.InternalServerError("save session: %s", err.Error())
	}

	data, err := jsonproj.MarshalLower(editRes.Result)
	if err != nil {
		return gcresult.InternalServerError("marshal lowering result: %s", err.Error())
	}

	return gcresult.Response(http.StatusOK, json.RawMessage(data), "session %s: line %d edited", id, lineNo)
}

// HTTPGetStage returns a handler for GET /sessions/{id}/{stage}.
func (api API) HTTPGetStage() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetStage)
}

func (api API) epGetStage(req *http.Request) gcresult.Result {
	id := requireSessionID(req)
	stage := chi.URLParam(req, "stage")

	rec, err := api.Sessions.GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, gcdao.ErrNotFound) {
			return gcresult.NotFound("session %s not found", id)
		}
		return gcresult.InternalServerError("load session: %s", err.Error())
	}

	sess, err := session.UnmarshalSnapshot(rec.Snapshot)
	if err != nil {
		return gcresult.InternalServerError("decode session %s: %s", id, err.Error())
	}

	text := joinLines(sess.Lines())
	prog, parseDiags := gparse.Parse(text)

	var data []byte
	switch stage {
	case "parse":
		data, err = jsonproj.MarshalParse(prog, parseDiags)
	case "lower":
		data, err = jsonproj.MarshalLower(sess.Latest())
	case "ail":
		ailRes := ail.LowerFromMessages(prog, sess.Latest(), sess.Options())
		data, err = jsonproj.MarshalAil(ailRes)
	case "packet":
		msgRes := sess.Latest()
		ailRes := ail.LowerFromMessages(prog, msgRes, sess.Options())
		pktRes := packet.Build(ailRes.Instructions)
		data, err = jsonproj.MarshalPacket(pktRes, parseDiags, ailRes.Rejected)
	default:
		return gcresult.BadRequest("stage must be one of parse, lower, ail, packet", "unknown stage %q", stage)
	}
	if err != nil {
		return gcresult.InternalServerError("marshal %s result: %s", stage, err.Error())
	}

	return gcresult.Response(http.StatusOK, json.RawMessage(data), "session %s: stage %s fetched", id, stage)
}

func joinLines(lines []string) string {
	text := ""
	for i, l := range lines {
		if i > 0 {
			text += "\n"
		}
		text += l
	}
	return text
}
