// Package session implements a conversation with the Puter AI gateway.
//
// A [Session] owns the authentication token, the selected model and the
// transcript. It starts unauthenticated unless a token is supplied with
// [WithToken]; [Session.Login] exchanges username and password for a token.
// There is no way back from the authenticated state.
//
// Each chat call builds the user message, sends it together with the whole
// transcript, extracts the answer with the response package and, on success,
// commits the user message and the answer to the transcript as one atomic
// pair. Calls made through [Session.ChatAsync] and [Session.ChatAll] go
// through the transport's rate limit; [Session.Chat] does not.
//
// An answer that cannot be extracted is not an error. The call returns the
// diagnostic marker (see [response.MissPrefix]) and commits nothing.
//
//	s := session.New(session.WithCredentials(user, pass))
//	if err := s.Login(ctx); err != nil {
//	    return err
//	}
//	answer, err := s.Chat(ctx, "Hello!")
package session
