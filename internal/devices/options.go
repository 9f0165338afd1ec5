package devices

// RuntimeToken is a value the streaming host substitutes when the script runs.
// sunprep passes these through verbatim.
type RuntimeToken struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

var runtimeTokens = []RuntimeToken{
	{Token: "${SUNSHINE_CLIENT_WIDTH}", Description: "Client stream width in pixels"},
	{Token: "${SUNSHINE_CLIENT_HEIGHT}", Description: "Client stream height in pixels"},
	{Token: "${SUNSHINE_CLIENT_FPS}", Description: "Client stream frame rate"},
	{Token: "${SUNSHINE_APP_NAME}", Description: "Name of the launched application"},
}

// RuntimeTokens lists the host-provided tokens.
func RuntimeTokens() []RuntimeToken {
	out := make([]RuntimeToken, len(runtimeTokens))
	copy(out, runtimeTokens)
	return out
}

var resolutionOptions = []Option{
	{Value: "1920", Label: "1920 (1080p width)"},
	{Value: "1080", Label: "1080 (1080p height)"},
	{Value: "2560", Label: "2560 (1440p width)"},
	{Value: "1440", Label: "1440 (1440p height)"},
	{Value: "3840", Label: "3840 (4K width)"},
	{Value: "2160", Label: "2160 (4K height)"},
}

var staticOptions = map[string][]Option{
	"width":  append(append([]Option{}, resolutionOptions...), Option{Value: "${SUNSHINE_CLIENT_WIDTH}", Label: "Use Sunshine Client Width"}),
	"height": append(append([]Option{}, resolutionOptions...), Option{Value: "${SUNSHINE_CLIENT_HEIGHT}", Label: "Use Sunshine Client Height"}),
	"refresh_rate": {
		{Value: "60", Label: "60 Hz"},
		{Value: "120", Label: "120 Hz"},
		{Value: "144", Label: "144 Hz"},
		{Value: "${SUNSHINE_CLIENT_FPS}", Label: "Use Sunshine Client FPS"},
	},
	"service_name": {
		{Value: "Spooler", Label: "Print Spooler"},
		{Value: "Themes", Label: "Themes"},
		{Value: "AudioSrv", Label: "Windows Audio"},
		{Value: "AudioEndpointBuilder", Label: "Windows Audio Endpoint Builder"},
		{Value: "NVIDIA Display Driver Service", Label: "NVIDIA Display Driver Service"},
		{Value: "AMD External Events Utility", Label: "AMD External Events Utility"},
	},
	"process_name": {
		{Value: "steam.exe", Label: "Steam"},
		{Value: "EpicGamesLauncher.exe", Label: "Epic Games Launcher"},
		{Value: "uplay.exe", Label: "Ubisoft Connect"},
		{Value: "origin.exe", Label: "Origin"},
		{Value: "discord.exe", Label: "Discord"},
		{Value: "spotify.exe", Label: "Spotify"},
		{Value: "chrome.exe", Label: "Google Chrome"},
		{Value: "firefox.exe", Label: "Mozilla Firefox"},
	},
	"volume": {
		{Value: "0", Label: "0% (Mute)"},
		{Value: "10", Label: "10%"},
		{Value: "25", Label: "25%"},
		{Value: "50", Label: "50%"},
		{Value: "75", Label: "75%"},
		{Value: "100", Label: "100% (Max)"},
	},
	"volume_level": {
		{Value: "0", Label: "0 (Mute)"},
		{Value: "6553", Label: "6553 (10%)"},
		{Value: "16384", Label: "16384 (25%)"},
		{Value: "32768", Label: "32768 (50%)"},
		{Value: "49152", Label: "49152 (75%)"},
		{Value: "65535", Label: "65535 (100% Max)"},
	},
	"seconds": {
		{Value: "1", Label: "1 second"},
		{Value: "2", Label: "2 seconds"},
		{Value: "3", Label: "3 seconds"},
		{Value: "5", Label: "5 seconds"},
		{Value: "10", Label: "10 seconds"},
		{Value: "30", Label: "30 seconds"},
	},
	"message": {
		{Value: "Game starting...", Label: "Game starting..."},
		{Value: "Display configuration changed", Label: "Display configuration changed"},
		{Value: "Audio device switched", Label: "Audio device switched"},
		{Value: "Script completed successfully", Label: "Script completed successfully"},
		{Value: "Sunshine session started", Label: "Sunshine session started"},
		{Value: "Sunshine session ended", Label: "Sunshine session ended"},
		{Value: "Launching ${SUNSHINE_APP_NAME}...", Label: "Game Launch Message"},
	},
	"command": {
		{Value: `Get-Process | Where-Object {$_.ProcessName -eq "steam"} | Stop-Process`, Label: "Stop Steam Process"},
		{Value: `Get-Service "NVIDIA Display Driver Service" | Restart-Service`, Label: "Restart NVIDIA Service"},
		{Value: `Start-Process "steam://launch/YOUR_GAME_ID"`, Label: "Launch Steam Game by ID"},
		{Value: `Set-ItemProperty -Path "HKCU:\Software\Microsoft\Windows\CurrentVersion\GameDVR" -Name "AppCaptureEnabled" -Value 0`, Label: "Disable Game DVR"},
	},
}

// StaticVariables lists the placeholders with a fixed option table.
func StaticVariables() []string {
	return []string{"width", "height", "refresh_rate", "service_name", "process_name", "volume", "volume_level", "seconds", "message", "command"}
}
