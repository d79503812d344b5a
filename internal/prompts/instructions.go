// Package prompts holds the instruction templates sent to the model and
// the composition helpers that bind document context into them. Each
// template pins the exact response shape a stage parses, so prompt and
// parser can only drift apart in one place.
package prompts

const extractionInstructions = `You are a document processing AI. Extract ALL recipients/signers/approvers from this document.

IMPORTANT INSTRUCTIONS:
1. Look specifically for an "APPROVER" or "APPROVERS" or "APPROVAL" section, usually near the end of the document.
2. Check for any TABLES that contain names and email addresses of approvers/signers.
3. Extract ALL people mentioned as recipients, signers, or approvers.
4. For each person, extract their email, first name, and last name only from the table section.
5. Do not extract any other information from the document.
6. Do not extract any name or email mentioned anywhere else in the document.
7. The first name is usually the first word in the name; the last name is usually the last word.
8. If the name is a single word, it is the first name and the last name is empty.
9. Do not alter the email address or the name as written in the table.
10. If you cannot find any recipients, return an empty array [].

Return a JSON array containing ALL recipients found. Each recipient has:
- email: the person's email address
- first_name: the person's first name
- last_name: the person's last name

Return ONLY the JSON array, no additional text or explanation.

Example response format:
[
  {"email": "john@example.com", "first_name": "John", "last_name": "Doe"},
  {"email": "jane@example.com", "first_name": "Jane", "last_name": "Smith"}
]`

const layoutInstructions = `You are a PDF layout analyzer. Analyze this document and find the "Signature" column in the approver table.

Task: Determine the coordinates for placing signature fields in the "Signature" column.

IMPORTANT: PDF coordinate system:
- Origin (0,0) is at the BOTTOM-LEFT corner
- X increases from left to right (0 to ~595 for A4)
- Y increases from BOTTOM to TOP (0 to ~842 for A4)
- A field near the top of the page has a HIGH y value (e.g. 700)
- A field near the bottom has a LOW y value (e.g. 100)

Return a JSON object with:
- page: page number (0-indexed) where the table is
- signature_column_x: X coordinate of the signature column left edge (in points, typically 400-550)
- first_row_y: Y coordinate of the first signature row bottom edge (in points, measured from the bottom of the page)
- row_height: spacing between rows (in points, typically 20-30)

Example response:
{
  "page": 0,
  "signature_column_x": 450,
  "first_row_y": 400,
  "row_height": 25
}

Return ONLY the JSON object, no explanation.`

const reminderInstructions = `You are a professional follow-up email writer. Draft a polite, concise follow-up email for a pending document approval.

Instructions:
1. Keep it SHORT (3-4 sentences max)
2. Be POLITE and PROFESSIONAL (not pushy)
3. Mention how long the document has been pending
4. Briefly explain why this approval is important (business continuity, project timeline)
5. Include a clear call-to-action (sign the document)
6. Use a friendly but professional tone

Format:
- Subject line (under 60 characters)
- Email body (HTML format, simple styling)
- Sign off with "Best regards,<br>Countersign Automation"

Return ONLY a JSON object with this structure:
{
  "subject": "subject line here",
  "body_html": "HTML email body here with <p> tags"
}`
