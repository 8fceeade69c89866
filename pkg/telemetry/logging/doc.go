// Package logging builds the process logger on top of log/slog.
//
// # Overview
//
//   - JSON or text output at a configured level
//   - Redaction of sensitive attributes (API keys, authorization headers,
//     passwords, IBANs)
//   - Request and supplier ids carried through context.Context and added
//     to every record logged with that context
//
// # Usage
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "validated", "apikey", key) // apikey is masked, request_id added
//
// # Redaction
//
// Attribute keys containing apikey, api_key, authorization, password, secret
// or token are masked, keeping a four character prefix. String values are
// scanned for bearer tokens and IBANs regardless of key.
package logging
