package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"git-setup/internal/config"
	"git-setup/internal/logger"
	"git-setup/internal/outcome"
	"git-setup/internal/pkgmgr"
	"git-setup/internal/platform"
	"git-setup/internal/shell"
)

// GitHubAPI is the default GitHub REST endpoint.
const GitHubAPI = "https://api.github.com"

// GitHubRelease represents the structure of a GitHub release JSON response.
type GitHubRelease struct {
	TagName string `json:"tag_name"` // The release tag (e.g., v2.43.0.windows.1)
	Assets  []struct {
		Name               string `json:"name"`                 // Asset filename
		BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
	} `json:"assets"`
}

// ReleaseInstaller installs a portable git build published as a GitHub
// release asset.
type ReleaseInstaller struct {
	capability platform.Capability
	runner     shell.Runner
	client     *http.Client
	download   pkgmgr.Downloader
	fs         afero.Fs
	apiBase    string
	cfg        config.Release
	tempDir    string
	env        shell.Env
}

// NewReleaseInstaller builds a ReleaseInstaller talking to apiBase.
func NewReleaseInstaller(
	capability platform.Capability,
	runner shell.Runner,
	client *http.Client,
	download pkgmgr.Downloader,
	fs afero.Fs,
	apiBase string,
	cfg config.Release,
	tempDir string,
) *ReleaseInstaller {
	return &ReleaseInstaller{
		capability: capability,
		runner:     runner,
		client:     client,
		download:   download,
		fs:         fs,
		apiBase:    strings.TrimRight(apiBase, "/"),
		cfg:        cfg,
		tempDir:    tempDir,
		env:        shell.ProcessEnv(),
	}
}

// Install downloads the matching asset, extracts it into the install
// directory and puts its cmd directory on PATH.
func (r *ReleaseInstaller) Install(ctx context.Context) outcome.Outcome {
	release, err := r.fetchRelease(ctx)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		return outcome.Failure(err.Error())
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))

	assetName, assetURL, err := r.matchAsset(release)
	if err != nil {
		return outcome.Failure(err.Error())
	}

	if err := r.fs.MkdirAll(r.tempDir, 0o755); err != nil {
		return outcome.Failuref("failed to create %s: %v", r.tempDir, err)
	}
	archive := r.capability.Join(r.tempDir, assetName)
	logger.Info("[INFO] Downloading asset %s to %s\n", assetName, archive)
	if err := r.download.Download(ctx, assetURL, archive); err != nil {
		return outcome.Failuref("failed to download asset %s: %v", assetName, err)
	}
	defer func() {
		if err := r.fs.Remove(archive); err != nil {
			logger.Warn("[WARN] Could not remove %s: %v\n", archive, err)
		}
	}()

	if err := ExtractArchive(r.fs, archive, r.cfg.InstallDir); err != nil {
		return outcome.Failuref("failed to extract archive: %v", err)
	}

	binDir := r.capability.Join(r.cfg.InstallDir, "cmd")
	r.addToPath(ctx, binDir)

	logger.Info("[INFO] Installed %s into %s\n", release.TagName, r.cfg.InstallDir)
	return outcome.Successf("Installed %s into %s", release.TagName, r.cfg.InstallDir)
}

func (r *ReleaseInstaller) fetchRelease(ctx context.Context) (*GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", r.apiBase, r.cfg.Repo)
	if r.cfg.Tag != "" {
		url = fmt.Sprintf("%s/repos/%s/releases/tags/%s", r.apiBase, r.cfg.Repo, r.cfg.Tag)
	}
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET error fetching release of %s: %w", r.cfg.Repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub release fetch failed for %s: HTTP status %d", r.cfg.Repo, resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub release JSON for %s: %w", r.cfg.Repo, err)
	}
	return &release, nil
}

func (r *ReleaseInstaller) matchAsset(release *GitHubRelease) (string, string, error) {
	pattern, err := regexp.Compile(r.cfg.AssetPattern)
	if err != nil {
		return "", "", fmt.Errorf("invalid asset pattern %q: %w", r.cfg.AssetPattern, err)
	}
	for _, asset := range release.Assets {
		if pattern.MatchString(asset.Name) {
			logger.Debug("[DEBUG] Found matching asset: %s\n", asset.Name)
			return asset.Name, asset.BrowserDownloadURL, nil
		}
	}
	return "", "", fmt.Errorf("no asset matching %q in release %s", r.cfg.AssetPattern, release.TagName)
}

// addToPath prepends dir to this process's PATH and to the persistent user
// PATH. A failure to persist only costs the next session.
func (r *ReleaseInstaller) addToPath(ctx context.Context, dir string) {
	sep := r.capability.PathListSeparator()
	if err := r.env.PrependPath(sep, dir); err != nil {
		logger.Warn("[WARN] Could not set PATH: %v\n", err)
	}

	line := fmt.Sprintf(
		"[Environment]::SetEnvironmentVariable('Path', %s + [Environment]::GetEnvironmentVariable('Path','User'), 'User')",
		r.capability.Quote(dir+sep))
	result := r.runner.Run(ctx, line, shell.Options{SkipPackageManagerPrecheck: true})
	if !result.Succeeded {
		logger.Warn("[WARN] Could not add %s to the user PATH: %s\n", dir, result.Error)
	}
}
