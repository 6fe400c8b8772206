package httpserver

const landingPage = `<html>
<head><title>UX Analysis API</title>
<style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 20px; }
    h1 { color: #4A90E2; }
    .status { padding: 10px; background-color: #E3F2FD; border-radius: 4px; }
    code { background: #f4f4f4; padding: 2px 5px; border-radius: 3px; }
</style>
</head>
<body>
    <h1>UX Analysis API</h1>
    <div class="status">UX analysis backend is running.</div>
    <p>This API analyzes UI screenshots and provides feedback on:</p>
    <ul>
        <li>Visual Design</li>
        <li>UX Laws</li>
        <li>Cognitive Load</li>
        <li>Psychological Effects</li>
        <li>Gestalt Principles</li>
    </ul>
    <p>Upload images to <code>/analyze</code> to get started.</p>
    <p><strong>Note:</strong> Only UI-related images (websites, apps, software interfaces) will be processed.</p>
</body>
</html>
`
