package styles

// bannerArt is printed when a migration starts.
const bannerArt = `
   ____   _____ ______     __  __ _                 _
  / __ \ / ____|  ____|   |  \/  (_)               | |
 | |  | | (___ | |__      | \  / |_  __ _ _ __ __ _| |_ ___
 | |  | |\___ \|  __|     | |\/| | |/ _' | '__/ _' | __/ _ \
 | |__| |____) | |____    | |  | | | (_| | | | (_| | ||  __/
  \____/|_____/|______|   |_|  |_|_|\__, |_|  \__,_|\__\___|
                                     __/ |
                                    |___/`

// RenderBanner renders the splash banner.
func (s *Styles) RenderBanner() string {
	return s.Banner.Render(bannerArt)
}
