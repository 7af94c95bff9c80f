package store

import (
	"context"
	"strconv"

	"labelmark-cli/internal/model"
)

// TUIState is the small bit of layout state restored on relaunch.
//
// Loading is best effort: callers get defaults for missing or unreadable values.
type TUIState struct {
	Tabs             []model.TabItem `json:"tabs,omitempty"`
	ActiveTab        string          `json:"active,omitempty"`
	SidebarCollapsed bool            `json:"-"`
}

type tabsRecord struct {
	Tabs   []model.TabItem `json:"tabs"`
	Active string          `json:"active"`
}

func LoadTUIState(ctx context.Context, kv KV) *TUIState {
	st := &TUIState{}
	if kv == nil {
		return st
	}
	var rec tabsRecord
	if ok, err := GetJSON(ctx, kv, KeyTabs, &rec); err == nil && ok {
		st.Tabs = rec.Tabs
		st.ActiveTab = rec.Active
	}
	if raw, ok, err := kv.Get(ctx, KeySidebarCollapsed); err == nil && ok {
		st.SidebarCollapsed, _ = strconv.ParseBool(raw)
	}
	return st
}

func SaveTUIState(ctx context.Context, kv KV, st *TUIState) error {
	if kv == nil || st == nil {
		return nil
	}
	if err := SetJSON(ctx, kv, KeyTabs, tabsRecord{Tabs: st.Tabs, Active: st.ActiveTab}); err != nil {
		return err
	}
	return kv.Set(ctx, KeySidebarCollapsed, strconv.FormatBool(st.SidebarCollapsed))
}
