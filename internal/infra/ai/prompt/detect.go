package prompt

// UIDetection asks for a bare YES/NO answer about whether an image shows a UI.
const UIDetection = `
Analyze this image and determine if it contains a user interface (UI) element such as:
- Website or web application interface
- Mobile app screen
- Software dashboard
- Digital product interface
- UI wireframe or mockup
- Control panel or settings screen

Respond with just 'YES' if this is a UI-related image that could be analyzed for UX principles,
or 'NO' if this is not a UI-related image (e.g., photograph of a person, landscape, object, etc.).
`
