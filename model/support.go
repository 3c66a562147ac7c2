// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package model

import "time"

// TicketStatus is the state of a help ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// Closed reports whether the ticket needs no more attention.
func (s TicketStatus) Closed() bool {
	return s == TicketResolved || s == TicketClosed
}

// TicketResponse is one reply on a ticket.
type TicketResponse struct {
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// HelpTicket is a support request raised from the mobile app.
type HelpTicket struct {
	ID        string           `json:"id"        gorm:"primaryKey;size:64"`
	UserID    string           `json:"user_id"   gorm:"size:64;index"`
	OrderID   string           `json:"order_id,omitempty" gorm:"size:64"`
	Subject   string           `json:"subject"   gorm:"size:256"`
	Message   string           `json:"message"   gorm:"type:text"`
	Status    TicketStatus     `json:"status"    gorm:"size:32;index"`
	Responses []TicketResponse `json:"responses" gorm:"serializer:json"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Role is what a user account may do.
type Role string

const (
	RoleCustomer Role = "customer"
	RolePartner  Role = "partner"
	RoleAdmin    Role = "admin"
)

// User is an account of the mobile app.
type User struct {
	ID           string `json:"id"    gorm:"primaryKey;size:64"`
	Name         string `json:"name"  gorm:"size:128"`
	Email        string `json:"email" gorm:"size:128;uniqueIndex"`
	Role         Role   `json:"role"  gorm:"size:16"`
	PasswordHash string `json:"-"     gorm:"size:128"`
}

// Address is a geocoded location.
type Address struct {
	Label     string  `json:"label"`
	Line      string  `json:"line"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
