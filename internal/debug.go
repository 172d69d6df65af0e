package internal

import (
	"log"
	"os"
	"os/user"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rm-hull/image-resampler/internal/resample"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion() {
	log.Printf("Version: %s (revision %s, modified=%t)", versioninfo.Version, versioninfo.Short(), versioninfo.DirtyBuild)
	log.Printf("Go: %s %s/%s, GOMAXPROCS=%d", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.GOMAXPROCS(0))
	log.Printf("Kernels: %s", strings.Join(resample.Supported(), ", "))
}

// EnvironmentVars logs the variables with the given prefix, masking anything
// that looks like a credential.
func EnvironmentVars(prefix string) {
	log.Printf("Environment variables (%s*)", prefix)
	for _, line := range environment(os.Environ(), prefix) {
		log.Printf("  %s", line)
	}
}

func environment(environ []string, prefix string) []string {
	lines := make([]string, 0, len(environ))
	for _, entry := range environ {
		key, value, _ := strings.Cut(entry, "=")
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if sensitiveRegex.MatchString(key) {
			value = "********"
		}
		lines = append(lines, key+": "+value)
	}
	sort.Strings(lines)
	return lines
}

func UserInfo() {
	log.Printf("PID: %d", os.Getpid())
	currentUser, err := user.Current()
	if err != nil {
		log.Printf("Error getting current user: %v", err)
		return
	}
	log.Printf("User: uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid)
}
