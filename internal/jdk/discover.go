package jdk

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sonvt1710/coc-java/internal/utils"
)

// Sources describes where Discover looks for runtimes.
type Sources struct {
	// Getenv reads environment variables; os.Getenv when nil.
	Getenv func(string) string
	// InstallDirs are parent directories whose children are JDK homes.
	// DefaultInstallDirs() when nil.
	InstallDirs []string
}

func (s Sources) getenv(key string) string {
	if s.Getenv != nil {
		return s.Getenv(key)
	}
	return os.Getenv(key)
}

func (s Sources) installDirs() []string {
	if s.InstallDirs != nil {
		return s.InstallDirs
	}
	return DefaultInstallDirs()
}

// DefaultInstallDirs lists the common locations JDK distributions and version
// managers install into on this platform.
func DefaultInstallDirs() []string {
	var dirs []string
	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, "/Library/Java/JavaVirtualMachines")
	case "windows":
		for _, env := range []string{"ProgramFiles", "ProgramW6432"} {
			root := os.Getenv(env)
			if root == "" {
				continue
			}
			for _, vendor := range []string{"Java", "Eclipse Adoptium", "Eclipse Foundation", "Microsoft", "Zulu", "Amazon Corretto", "BellSoft"} {
				dirs = append(dirs, filepath.Join(root, vendor))
			}
		}
	default:
		dirs = append(dirs, "/usr/lib/jvm", "/usr/java", "/opt/java", "/opt/jdk", "/opt/jdks")
	}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".sdkman", "candidates", "java"),
			filepath.Join(home, ".jdks"),
			filepath.Join(home, ".gradle", "jdks"),
			filepath.Join(home, ".asdf", "installs", "java"),
			filepath.Join(home, ".jabba", "jdk"),
		)
		if runtime.GOOS == "darwin" {
			dirs = append(dirs, filepath.Join(home, "Library", "Java", "JavaVirtualMachines"))
		}
	}
	return dirs
}

// Discover probes every source sequentially and returns the runtimes found,
// in discovery order. A home reached through several sources appears once
// with all of its origins.
func Discover(ctx context.Context, src Sources) []Candidate {
	var found []Candidate
	index := make(map[string]int)

	add := func(home string, origin Origin) {
		if ctx.Err() != nil {
			return
		}
		c, ok := Probe(ctx, home)
		if !ok {
			return
		}
		if i, seen := index[c.Home]; seen {
			found[i].addOrigin(origin)
			return
		}
		c.Origins = []Origin{origin}
		index[c.Home] = len(found)
		found = append(found, *c)
	}

	if home := src.getenv("JDK_HOME"); home != "" {
		add(home, OriginJDKHome)
	}
	if home := src.getenv("JAVA_HOME"); home != "" {
		add(home, OriginJavaHome)
	}
	for _, home := range pathHomes(src.getenv("PATH")) {
		add(home, OriginPath)
	}
	for _, dir := range src.installDirs() {
		for _, home := range childHomes(dir) {
			add(home, OriginOther)
		}
	}

	return found
}

// pathHomes maps each PATH entry holding javac to the JDK home above it,
// following symlinks such as /usr/bin/javac -> /usr/lib/jvm/.../bin/javac.
func pathHomes(pathEnv string) []string {
	var homes []string
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		javac := filepath.Join(dir, utils.ExecutableName("javac"))
		if !utils.FileExists(javac) {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(javac); err == nil {
			javac = resolved
		}
		homes = append(homes, filepath.Dir(filepath.Dir(javac)))
	}
	return homes
}

// childHomes lists candidate homes directly under dir. macOS bundles keep
// the home in Contents/Home.
func childHomes(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var homes []string
	for _, entry := range entries {
		home := filepath.Join(dir, entry.Name())
		if !utils.IsDirectory(home) {
			continue
		}
		if bundle := filepath.Join(home, "Contents", "Home"); utils.IsDirectory(bundle) {
			home = bundle
		}
		homes = append(homes, home)
	}
	return homes
}
