// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"context"

	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Frame types of the help tickets page.
const (
	TypeGetHelpTickets  = "get_help_tickets"
	TypeHelpTicketsData = "help_tickets_data"
	TypeRespondToTicket = "respond_to_ticket"
	TypeTicketUpdated   = "ticket_updated"
)

type ticketResponse struct {
	ID       string             `json:"id"               validate:"required"`
	Response string             `json:"response"         validate:"required,max=2000"`
	Status   model.TicketStatus `json:"status,omitempty" validate:"omitempty,oneof=open in_progress resolved closed"`
}

// HelpTicketsPage answers support tickets raised from the mobile app.
type HelpTicketsPage struct {
	page
	tickets listState[model.HelpTicket]
}

var _ Page = (*HelpTicketsPage)(nil)

// NewHelpTicketsPage creates the help tickets page.
func NewHelpTicketsPage(transport Transport, notifier notify.Notifier) *HelpTicketsPage {
	return &HelpTicketsPage{page: newPage("tickets", transport, notifier)}
}

func (p *HelpTicketsPage) Mount(ctx context.Context) error {
	p.on(TypeHelpTicketsData, p.onTickets)
	p.on(TypeTicketUpdated, p.acknowledge("Ticket updated", p.Refresh))
	p.on(typeError, p.handleError)

	return p.Refresh(ctx)
}

func (p *HelpTicketsPage) Refresh(ctx context.Context) error {
	return p.request(ctx, TypeGetHelpTickets, nil)
}

func (p *HelpTicketsPage) onTickets(ctx context.Context, payload websocket.Payload) {
	p.tickets.set(decodeList[model.HelpTicket](ctx, payload, "tickets"))
	p.loading.Store(false)
}

// Tickets returns the tickets in the order the server sent them.
func (p *HelpTicketsPage) Tickets() []model.HelpTicket {
	return p.tickets.snapshot()
}

// Open returns the tickets still waiting for an answer.
func (p *HelpTicketsPage) Open() []model.HelpTicket {
	return p.tickets.filter(func(t model.HelpTicket) bool {
		return !t.Status.Closed()
	})
}

// Closed returns the resolved and closed tickets.
func (p *HelpTicketsPage) Closed() []model.HelpTicket {
	return p.tickets.filter(func(t model.HelpTicket) bool {
		return t.Status.Closed()
	})
}

// Respond posts a response on ticket id and optionally moves it to status.
func (p *HelpTicketsPage) Respond(ctx context.Context, id, response string, status model.TicketStatus) error {
	body := ticketResponse{ID: id, Response: response, Status: status}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeRespondToTicket, body)
}
