package cli

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jbc/internal/config"
)

func testApp() *app {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &app{
		log: log,
		cfg: &config.Config{
			Repo:          "acme/jenkins-base",
			ContainerName: "jenkins-base",
			Network:       "jbc1",
			Volume:        config.VolumeSpec{Name: "jenkins_home", MountPath: "/var/jenkins_home"},
			JenkinsEnv:    map[string]string{"JENKINS_ADMIN_ID": "admin"},
		},
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"setup", "image", "deploy", "dismantle", "clean"} {
		assert.Contains(t, names, want)
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("dry-run"))
	assert.NotNil(t, root.PersistentFlags().Lookup("release"))
}

func TestDeploySpecFromConfig(t *testing.T) {
	a := testApp()

	spec := a.deploySpec("acme/jenkins-base:test")

	assert.Equal(t, "acme/jenkins-base:test", spec.Image)
	assert.Equal(t, "jenkins-base", spec.ContainerName)
	assert.Equal(t, "jbc1", spec.Network)
	assert.Equal(t, "jenkins_home", spec.Volume.Name)
	assert.Equal(t, "/var/jenkins_home", spec.Volume.MountPath)
	assert.Equal(t, "admin", spec.Env["JENKINS_ADMIN_ID"])
}

func TestImageRefTestBuild(t *testing.T) {
	a := testApp()

	ref, err := a.imageRef()
	require.NoError(t, err)
	assert.Equal(t, "acme/jenkins-base:test", ref)
}

func TestImageRefReleaseBuildUsesContextTag(t *testing.T) {
	a := testApp()
	a.cfg.ReleaseBuild = true
	a.cfg.VersionOverride = "v1.2.3"

	ref, err := a.imageRef()
	require.NoError(t, err)
	// the deployment always runs the context-tagged image
	assert.Equal(t, "acme/jenkins-base:latest", ref)
}
