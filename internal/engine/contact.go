package engine

import (
	"context"
	"fmt"

	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
)

func (e *Engine) handleContactPhone(ctx context.Context, sess *model.Session, tokenHash string, req parser.ContactPhoneRequest) (*Result, error) {
	ws, err := e.ensureWorkspace(ctx, sess, tokenHash)
	if err != nil {
		return nil, err
	}

	if ws.Draft.Contact == nil {
		ws.Draft.Contact = &model.Contact{}
	}
	phone := req.Phone
	if req.Qualifier != "" {
		phone += "-" + req.Qualifier
	}
	ws.Draft.Contact.Phone = phone
	if req.City != "" {
		ws.Draft.Contact.City = req.City
	}
	ws.Draft.UpdatedAt = e.nowFn()

	return ok("CONTACT ADDED", ws.Draft), nil
}

func (e *Engine) handleContactEmail(ctx context.Context, sess *model.Session, tokenHash string, req parser.ContactEmailRequest) (*Result, error) {
	ws, err := e.ensureWorkspace(ctx, sess, tokenHash)
	if err != nil {
		return nil, err
	}

	if ws.Draft.Contact == nil {
		ws.Draft.Contact = &model.Contact{}
	}
	ws.Draft.Contact.Email = req.Email
	ws.Draft.UpdatedAt = e.nowFn()

	return ok("EMAIL CONTACT ADDED", ws.Draft), nil
}

func (e *Engine) handleAgency(ctx context.Context, sess *model.Session, tokenHash string, req parser.AgencyRequest) (*Result, error) {
	ws, err := e.ensureWorkspace(ctx, sess, tokenHash)
	if err != nil {
		return nil, err
	}

	ws.Draft.Agency = &model.Agency{
		City:     req.City,
		IataCode: req.IataCode,
		AgentID:  sess.User.AgentID,
	}
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("AGENCY %s/%s ADDED", req.City, req.IataCode), ws.Draft), nil
}

func (e *Engine) handleRemark(ctx context.Context, sess *model.Session, tokenHash string, req parser.RemarkRequest) (*Result, error) {
	ws, err := e.ensureWorkspace(ctx, sess, tokenHash)
	if err != nil {
		return nil, err
	}

	ws.Draft.Remarks = append(ws.Draft.Remarks, model.Remark{
		Number:    len(ws.Draft.Remarks) + 1,
		Text:      req.Text,
		AgentID:   sess.User.AgentID,
		CreatedAt: e.nowFn(),
	})
	ws.Draft.UpdatedAt = e.nowFn()

	return ok("REMARK ADDED", ws.Draft), nil
}
