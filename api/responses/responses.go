package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/types"
)

// WriteSuccess writes a 200 response. Object payloads are flattened next to
// the success marker; anything else is nested under "data".
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successBody(data))
}

// WriteBytes writes a raw, non-JSON body such as a PNG.
func WriteBytes(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf(`{"level":"error","msg":"failed to write response","err":"%v"}`, err)
	}
}

// WriteError renders err as the error envelope and logs it; 5xx at error
// level with the Postgres diagnostics, everything else as a warning.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	pub := pkgerrors.PublicFor(err)

	if logg != nil {
		fields := pkgerrors.Dump(err).Fields()
		fields["http_status"] = pub.Status
		ctx = logg.WithFields(ctx, fields)
		if pub.Status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, pub.Status, types.ErrorEnvelope{
		Error:   pub.Message,
		Code:    string(pub.Code),
		Details: pub.Details,
	})
}

func successBody(data any) any {
	if data == nil {
		return types.SuccessEnvelope{Success: true}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return types.SuccessEnvelope{Success: true, Data: data}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil && fields != nil {
		fields["success"] = json.RawMessage("true")
		return fields
	}
	return types.SuccessEnvelope{Success: true, Data: json.RawMessage(raw)}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
