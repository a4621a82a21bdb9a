package config

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/quasilyte/gdata"
)

const profileKey = "profile"

// Profile is the client identity persisted between runs.
type Profile struct {
	ClientID   netconfig.ClientID `json:"clientId"`
	LastServer string             `json:"lastServer"`
}

// ProfileStore loads and saves the client profile.
type ProfileStore struct {
	m *gdata.Manager
}

// OpenProfileStore opens the per-user data directory for appName.
func OpenProfileStore(appName string) (*ProfileStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return &ProfileStore{m: m}, nil
}

// Load returns the saved profile. A fresh profile with a random client id is
// created and saved when none exists yet.
func (s *ProfileStore) Load() (Profile, error) {
	data, err := s.m.LoadItem(profileKey)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if data == nil {
		p := Profile{ClientID: netconfig.ClientID(rand.N(uint32(1<<16-1)) + 1)}
		if err := s.Save(p); err != nil {
			log.Printf("Warning: Could not save new profile: %v", err)
		}
		return p, nil
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// Save writes the profile to disk.
func (s *ProfileStore) Save(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}
	if err := s.m.SaveItem(profileKey, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
