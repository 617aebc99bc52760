// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package feed relays the upstream ministry feeds to the browser shell.

The scroll dashboard and the prayer portal used to poll the upstream
services from every open tab. The relay polls once per API process on the
same cadence, keeps the last good payload of each feed and serves it from
memory behind the usual bearer and permission checks.
*/
package feed

// # Scroll Dashboard

// Dashboard is the payload of GET /scroll-dashboard.
type Dashboard struct {
	Prophecies   []Prophecy    `json:"prophecies"`
	ScrollCycles []ScrollCycle `json:"scrollCycles"`
	CurrentUser  DashboardUser `json:"currentUser"`
}

// Prophecy is one entry of the dashboard's prophecy queue.
type Prophecy struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Urgency    string `json:"urgency"`
	AssignedTo string `json:"assignedTo"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

// ScrollCycle is a scheduled or running prophetic cycle.
type ScrollCycle struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Participants int    `json:"participants"`
	Prophecies   int    `json:"prophecies"`
	Status       string `json:"status"`
}

// DashboardUser is the upstream's view of the signed-in member.
type DashboardUser struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// # Prayer Portal

// PrayerSession is a live or scheduled prayer stream.
type PrayerSession struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	StreamURL         string `json:"stream_url"`
	IsLive            bool   `json:"is_live"`
	ParticipantsCount int    `json:"participants_count"`
}

// PrayerLog is one submitted prayer.
type PrayerLog struct {
	ID         string `json:"id"`
	UserName   string `json:"user_name"`
	PrayerText string `json:"prayer_text"`
	Timestamp  string `json:"timestamp"`
}
