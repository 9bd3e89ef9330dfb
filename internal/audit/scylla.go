package audit

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
)

const insertAuditLog = `
	INSERT INTO audit_logs (
		id, user_email, action, resource, resource_id,
		ip_address, user_agent, request_id, status, success,
		error_msg, timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// ScyllaSink écrit dans la table audit_logs (voir scripts/audit_logs.cql).
type ScyllaSink struct {
	session *gocql.Session
}

func NewScyllaSink(session *gocql.Session) *ScyllaSink {
	return &ScyllaSink{session: session}
}

func (s *ScyllaSink) Record(ctx context.Context, e Entry) error {
	err := s.session.Query(insertAuditLog,
		gocql.TimeUUID(), e.UserEmail, e.Action, e.Resource, e.ResourceID,
		e.IPAddress, e.UserAgent, e.RequestID, e.Status, e.Success,
		e.ErrorMsg, e.Timestamp,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (s *ScyllaSink) Close() {
	s.session.Close()
}
