package settings

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Tier names, lowest precedence first.
const (
	TierDefaults = "defaults"
	TierUser     = "user"
	TierCampaign = "campaign"
)

// CampaignDirName is the settings directory at a campaign's root.
const CampaignDirName = ".npc"

// Tier is one layer of settings files. Later tiers override earlier ones.
type Tier struct {
	Name string
	// Dir is shown in messages. It may be empty for embedded tiers.
	Dir string
	// FS holds settings.yaml, systems/ and types/. Nil means the tier is
	// absent.
	FS fs.FS
}

func (t Tier) path(name string) string {
	if t.Dir == "" {
		return path.Join(t.Name, name)
	}
	return filepath.Join(t.Dir, filepath.FromSlash(name))
}

// DirTier returns a tier backed by dir, or an absent tier when dir does not
// exist.
func DirTier(name, dir string) Tier {
	t := Tier{Name: name, Dir: dir}
	if dir == "" {
		return t
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		t.FS = os.DirFS(dir)
	}
	return t
}

// StandardTiers returns the defaults, user and campaign tiers. campaignRoot
// is the directory that holds the .npc folder and may be empty.
func StandardTiers(defaults fs.FS, userDir, campaignRoot string) []Tier {
	tiers := []Tier{
		{Name: TierDefaults, FS: defaults},
		DirTier(TierUser, userDir),
	}
	campaignDir := ""
	if campaignRoot != "" {
		campaignDir = filepath.Join(campaignRoot, CampaignDirName)
	}
	return append(tiers, DirTier(TierCampaign, campaignDir))
}
