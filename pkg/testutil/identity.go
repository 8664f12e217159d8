package testutil

import "net/http"

// Identity headers the authenticating proxy would forward. Tests set them
// directly instead of standing up a proxy.
const (
	headerActorID   = "X-Actor-ID"
	headerActorRole = "X-Actor-Role"
)

// WithIdentity sets the forwarded-identity headers on the request.
func WithIdentity(req *http.Request, actorID, role string) *http.Request {
	req.Header.Set(headerActorID, actorID)
	req.Header.Set(headerActorRole, role)
	return req
}

// AsParticipant marks the request as coming from a participant.
func AsParticipant(req *http.Request, actorID string) *http.Request {
	return WithIdentity(req, actorID, "participant")
}

// AsJudge marks the request as coming from a judge.
func AsJudge(req *http.Request, judgeID string) *http.Request {
	return WithIdentity(req, judgeID, "judge")
}

// AsAdmin marks the request as coming from an organizer.
func AsAdmin(req *http.Request, actorID string) *http.Request {
	return WithIdentity(req, actorID, "admin")
}
