package options

// TitleOptions
type TitleOptions struct {
	Title string
}
